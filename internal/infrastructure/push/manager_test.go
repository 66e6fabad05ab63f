package push

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn scripts the remote side of the push channel: frames queued on
// incoming come out of ReadMessage, frames the manager writes are recorded.
type fakeConn struct {
	incoming chan []byte

	mu     sync.Mutex
	writes []Frame
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan []byte, 32)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	payload, ok := <-c.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, payload, nil
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("write on closed connection")
	}
	c.writes = append(c.writes, v.(Frame))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.incoming)
	}
	return nil
}

func (c *fakeConn) sentFrames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Frame, len(c.writes))
	copy(out, c.writes)
	return out
}

func (c *fakeConn) push(t *testing.T, frame Frame) {
	t.Helper()
	payload, err := json.Marshal(frame)
	require.NoError(t, err)
	c.incoming <- payload
}

func startManager(t *testing.T) (*Manager, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	manager := NewManager(func(ctx context.Context) (Conn, error) {
		return conn, nil
	})
	require.NoError(t, manager.Start(context.Background()))
	t.Cleanup(manager.Close)
	return manager, conn
}

func collect(sub *Subscription, n int, timeout time.Duration) []Event {
	var out []Event
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return out
			}
			out = append(out, event)
		case <-deadline:
			return out
		}
	}
	return out
}

func TestSubscribeEmitsJoinOncePerRoom(t *testing.T) {
	manager, conn := startManager(t)

	first, err := manager.Subscribe(RoomNotifications)
	require.NoError(t, err)
	second, err := manager.Subscribe(RoomNotifications)
	require.NoError(t, err)

	frames := conn.sentFrames()
	require.Len(t, frames, 1)
	assert.Equal(t, "joinNotificationRoom", frames[0].Event)

	// First close keeps the room joined, last close leaves it.
	first.Close()
	assert.Len(t, conn.sentFrames(), 1)

	second.Close()
	frames = conn.sentFrames()
	require.Len(t, frames, 2)
	assert.Equal(t, "leaveNotificationRoom", frames[1].Event)
}

func TestConversationJoinCarriesRoomID(t *testing.T) {
	manager, conn := startManager(t)

	sub, err := manager.Subscribe(RoomConversation("conv-9"))
	require.NoError(t, err)

	frames := conn.sentFrames()
	require.Len(t, frames, 1)
	assert.Equal(t, "joinConversation", frames[0].Event)
	assert.Equal(t, "conv-9", frames[0].Room)

	sub.Close()
	frames = conn.sentFrames()
	require.Len(t, frames, 2)
	assert.Equal(t, "leaveConversation", frames[1].Event)
	assert.Equal(t, "conv-9", frames[1].Room)
}

func TestDispatchPreservesOrderWithinRoom(t *testing.T) {
	manager, conn := startManager(t)

	sub, err := manager.Subscribe(RoomBills)
	require.NoError(t, err)

	for _, id := range []string{"b1", "b2", "b3"} {
		data, _ := json.Marshal(map[string]string{"id": id})
		conn.push(t, Frame{Event: EventBillUpdate, Room: RoomBills, Data: data})
	}

	events := collect(sub, 3, time.Second)
	require.Len(t, events, 3)
	for i, id := range []string{"b1", "b2", "b3"} {
		var payload struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(events[i].Data, &payload))
		assert.Equal(t, id, payload.ID)
	}
}

func TestEventsForLeftRoomAreDropped(t *testing.T) {
	manager, conn := startManager(t)

	subA, err := manager.Subscribe(RoomConversation("A"))
	require.NoError(t, err)

	// Switch selection: leave A, join B.
	subA.Close()
	subB, err := manager.Subscribe(RoomConversation("B"))
	require.NoError(t, err)

	// A late event for conversation A must not reach B's subscriber.
	dataA, _ := json.Marshal(map[string]string{"id": "m1", "conversation_id": "A"})
	conn.push(t, Frame{Event: EventNewMessage, Room: RoomConversation("A"), Data: dataA})

	dataB, _ := json.Marshal(map[string]string{"id": "m2", "conversation_id": "B"})
	conn.push(t, Frame{Event: EventNewMessage, Room: RoomConversation("B"), Data: dataB})

	events := collect(subB, 2, 500*time.Millisecond)
	require.Len(t, events, 1)
	message, err := events[0].Message()
	require.NoError(t, err)
	assert.Equal(t, "m2", message.ID)

	// The leave frame for A was written before the join frame for B.
	frames := conn.sentFrames()
	require.Len(t, frames, 3)
	assert.Equal(t, "leaveConversation", frames[1].Event)
	assert.Equal(t, "A", frames[1].Room)
	assert.Equal(t, "joinConversation", frames[2].Event)
	assert.Equal(t, "B", frames[2].Room)
}

func TestRoomRecoveredFromPayloadWhenOmitted(t *testing.T) {
	manager, conn := startManager(t)

	sub, err := manager.Subscribe(RoomConversation("conv-1"))
	require.NoError(t, err)

	data, _ := json.Marshal(map[string]string{"id": "m1", "conversation_id": "conv-1"})
	conn.push(t, Frame{Event: EventNewMessage, Data: data})

	events := collect(sub, 1, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, RoomConversation("conv-1"), events[0].Room)
}

func TestCloseTearsDownSubscriptions(t *testing.T) {
	manager, _ := startManager(t)

	sub, err := manager.Subscribe(RoomNotifications)
	require.NoError(t, err)

	manager.Close()

	_, open := <-sub.Events()
	assert.False(t, open)

	_, err = manager.Subscribe(RoomBills)
	assert.Error(t, err)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	manager, conn := startManager(t)

	sub, err := manager.Subscribe(RoomBills)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	frames := conn.sentFrames()
	require.Len(t, frames, 2)
	assert.Equal(t, "leaveBillRoom", frames[1].Event)
}
