package push

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"dentsync/pkg/logger"
)

// Room keys. Conversation rooms are scoped by id; notifications and bills are
// shared fixed rooms. The conversation-list room is implicit: the server
// addresses those events to the connection itself, so joining it emits nothing.
const (
	RoomNotifications    = "notifications"
	RoomBills            = "bills"
	RoomConversationList = "conversations"

	conversationRoomPrefix = "conversation:"
)

func RoomConversation(conversationID string) string {
	return conversationRoomPrefix + conversationID
}

// Conn is the slice of a websocket connection the manager needs. Satisfied by
// *websocket.Conn; tests substitute a scripted fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens the push connection. The default dials the configured endpoint
// with the bearer token in the handshake headers.
type Dialer func(ctx context.Context) (Conn, error)

func NewDialer(url, token string) Dialer {
	return func(ctx context.Context) (Conn, error) {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+token)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

type room struct {
	refs int
	subs map[*Subscription]bool
}

// Manager owns the single process-wide push connection and fans incoming
// events out to room subscriptions. Screens never dial on their own; they
// hold a Subscription and release it on teardown.
type Manager struct {
	dial Dialer

	mu     sync.Mutex
	conn   Conn
	rooms  map[string]*room
	closed bool
}

func NewManager(dial Dialer) *Manager {
	return &Manager{
		dial:  dial,
		rooms: make(map[string]*room),
	}
}

// Start dials the push endpoint and runs the read pump until the connection
// drops or the context is cancelled. Connect and disconnect are logged only;
// nothing is surfaced to widgets.
func (m *Manager) Start(ctx context.Context) error {
	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		conn.Close()
		return nil
	}
	m.conn = conn
	m.mu.Unlock()

	logger.Info("Push channel connected")

	go func() {
		<-ctx.Done()
		m.Close()
	}()
	go m.readPump()

	return nil
}

func (m *Manager) readPump() {
	for {
		m.mu.Lock()
		conn := m.conn
		m.mu.Unlock()
		if conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Push channel read failed: %v", err)
			} else {
				logger.Info("Push channel disconnected")
			}
			m.Close()
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logger.Warn("Push channel dropped malformed frame: %v", err)
			continue
		}

		m.dispatch(frame)
	}
}

// dispatch routes a frame to the subscriptions of its room, preserving the
// order frames were read off the connection.
func (m *Manager) dispatch(frame Frame) {
	roomKey := frame.Room
	if roomKey == "" {
		roomKey = defaultRoomFor(frame)
	}
	if roomKey == "" {
		logger.Debug("Push event %q had no routable room, dropped", frame.Event)
		return
	}

	event := Event{Name: frame.Event, Room: roomKey, Data: frame.Data}

	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.rooms[roomKey]
	if !ok {
		// Event for a room nobody watches anymore (e.g. raced a leave).
		logger.LogPushEvent(frame.Event, roomKey, nil)
		return
	}

	for sub := range rm.subs {
		select {
		case sub.events <- event:
		default:
			logger.Warn("Push subscriber for room %s is not draining, event %s dropped", roomKey, frame.Event)
		}
	}
}

// defaultRoomFor recovers the room for servers that omit the room field on
// event frames.
func defaultRoomFor(frame Frame) string {
	switch frame.Event {
	case EventNewMessage:
		var probe struct {
			ConversationID string `json:"conversation_id"`
		}
		if err := json.Unmarshal(frame.Data, &probe); err == nil && probe.ConversationID != "" {
			return RoomConversation(probe.ConversationID)
		}
		return ""
	case EventNewNotification:
		return RoomNotifications
	case EventNewBill, EventBillUpdate, EventBankTransferPaid:
		return RoomBills
	case EventConversationUpdate:
		return RoomConversationList
	default:
		return ""
	}
}

// Subscribe joins a room and returns a handle delivering its events. Rooms
// are reference counted: the first subscriber emits the join frame, the last
// Close emits the leave frame. The join is written before Subscribe returns,
// so a leave-then-join sequence from one goroutine cannot interleave.
func (m *Manager) Subscribe(roomKey string) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errClosed
	}

	rm, ok := m.rooms[roomKey]
	if !ok {
		rm = &room{subs: make(map[*Subscription]bool)}
		m.rooms[roomKey] = rm
	}

	sub := &Subscription{
		manager: m,
		room:    roomKey,
		events:  make(chan Event, 256),
	}

	if rm.refs == 0 {
		if frame, ok := joinFrame(roomKey); ok {
			if err := m.writeLocked(frame); err != nil {
				if len(rm.subs) == 0 {
					delete(m.rooms, roomKey)
				}
				return nil, err
			}
		}
	}

	rm.refs++
	rm.subs[sub] = true
	return sub, nil
}

func (m *Manager) release(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rm, ok := m.rooms[sub.room]
	if !ok || !rm.subs[sub] {
		return
	}

	delete(rm.subs, sub)
	close(sub.events)
	rm.refs--

	if rm.refs <= 0 {
		delete(m.rooms, sub.room)
		if m.closed {
			return
		}
		if frame, ok := leaveFrame(sub.room); ok {
			if err := m.writeLocked(frame); err != nil {
				logger.Warn("Failed to leave room %s: %v", sub.room, err)
			}
		}
	}
}

func (m *Manager) writeLocked(frame Frame) error {
	if m.conn == nil {
		return errNotConnected
	}
	return m.conn.WriteJSON(frame)
}

// Close tears down the connection and every live subscription. Safe to call
// more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for key, rm := range m.rooms {
		for sub := range rm.subs {
			delete(rm.subs, sub)
			close(sub.events)
		}
		delete(m.rooms, key)
	}

	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

func joinFrame(roomKey string) (Frame, bool) {
	switch {
	case strings.HasPrefix(roomKey, conversationRoomPrefix):
		return Frame{Event: verbJoinConversation, Room: strings.TrimPrefix(roomKey, conversationRoomPrefix)}, true
	case roomKey == RoomNotifications:
		return Frame{Event: verbJoinNotificationRoom}, true
	case roomKey == RoomBills:
		return Frame{Event: verbJoinBillRoom}, true
	default:
		return Frame{}, false
	}
}

func leaveFrame(roomKey string) (Frame, bool) {
	switch {
	case strings.HasPrefix(roomKey, conversationRoomPrefix):
		return Frame{Event: verbLeaveConversation, Room: strings.TrimPrefix(roomKey, conversationRoomPrefix)}, true
	case roomKey == RoomNotifications:
		return Frame{Event: verbLeaveNotificationRoom}, true
	case roomKey == RoomBills:
		return Frame{Event: verbLeaveBillRoom}, true
	default:
		return Frame{}, false
	}
}

// Subscription is a live membership in one room. Events arrives in server
// emission order; the channel closes when the subscription or the manager is
// torn down.
type Subscription struct {
	manager *Manager
	room    string
	events  chan Event
	once    sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Room() string {
	return s.room
}

// Close releases the room reference. Guaranteed to run at most once; the
// paired leave frame is written before Close returns.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.manager.release(s)
	})
}
