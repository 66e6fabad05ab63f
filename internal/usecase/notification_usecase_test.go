package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentsync/internal/domain/entity"
)

type fakeNotificationRepo struct {
	mu           sync.Mutex
	list         []*entity.Notification
	serverUnread int
	markedRead   []string
	markedAll    bool
	deleted      []string
}

func (r *fakeNotificationRepo) List(ctx context.Context) ([]*entity.Notification, error) {
	return r.list, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context) (int, error) {
	return r.serverUnread, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedRead = append(r.markedRead, id)
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedAll = true
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

func notification(id string, read bool) *entity.Notification {
	return &entity.Notification{
		ID:        id,
		Type:      entity.NotificationOther,
		Title:     "title " + id,
		IsRead:    read,
		CreatedAt: time.Now(),
	}
}

func newNotificationCenter(t *testing.T, repo *fakeNotificationRepo) *NotificationUseCase {
	t.Helper()
	uc := NewNotificationUseCase(repo, newTestPushManager(t), &recorderPublisher{})
	require.NoError(t, uc.Open(context.Background()))
	t.Cleanup(uc.Close)
	return uc
}

func TestUnreadCountIsDerivedFromCollection(t *testing.T) {
	repo := &fakeNotificationRepo{
		list: []*entity.Notification{
			notification("n1", false),
			notification("n2", true),
		},
		// A stale server counter must not leak into the derived badge.
		serverUnread: 5,
	}
	uc := newNotificationCenter(t, repo)

	assert.Equal(t, 1, uc.UnreadCount())

	uc.merge(notification("n3", false))
	assert.Equal(t, 2, uc.UnreadCount())

	// Duplicate push of an id already cached changes nothing.
	uc.merge(notification("n3", false))
	assert.Equal(t, 2, uc.UnreadCount())
	assert.Len(t, uc.Notifications(), 3)
}

func TestPushedNotificationsArePrepended(t *testing.T) {
	repo := &fakeNotificationRepo{list: []*entity.Notification{notification("n1", true)}}
	uc := newNotificationCenter(t, repo)

	uc.merge(notification("n2", false))

	notifications := uc.Notifications()
	require.Len(t, notifications, 2)
	assert.Equal(t, "n2", notifications[0].ID)
}

func TestMarkReadNeverDrivesCountNegative(t *testing.T) {
	repo := &fakeNotificationRepo{list: []*entity.Notification{notification("n1", false)}}
	uc := newNotificationCenter(t, repo)

	require.NoError(t, uc.MarkRead(context.Background(), "n1"))
	assert.Equal(t, 0, uc.UnreadCount())

	// Marking the same item again, or an unknown one, must hold at zero.
	require.NoError(t, uc.MarkRead(context.Background(), "n1"))
	require.NoError(t, uc.MarkRead(context.Background(), "missing"))
	assert.Equal(t, 0, uc.UnreadCount())
}

func TestMarkAllReadClearsEveryItem(t *testing.T) {
	repo := &fakeNotificationRepo{
		list: []*entity.Notification{
			notification("n1", false),
			notification("n2", false),
			notification("n3", true),
		},
	}
	uc := newNotificationCenter(t, repo)

	require.NoError(t, uc.MarkAllRead(context.Background()))

	assert.True(t, repo.markedAll)
	assert.Equal(t, 0, uc.UnreadCount())
	for _, n := range uc.Notifications() {
		assert.True(t, n.IsRead)
	}
}

func TestNilPublisherFallsBackToNop(t *testing.T) {
	repo := &fakeNotificationRepo{list: []*entity.Notification{notification("n1", false)}}
	uc := NewNotificationUseCase(repo, newTestPushManager(t), nil)
	require.NoError(t, uc.Open(context.Background()))
	t.Cleanup(uc.Close)

	uc.merge(notification("n2", false))
	require.NoError(t, uc.MarkAllRead(context.Background()))
	assert.Equal(t, 0, uc.UnreadCount())
}

func TestDeleteRemovesFromCache(t *testing.T) {
	repo := &fakeNotificationRepo{
		list: []*entity.Notification{
			notification("n1", false),
			notification("n2", false),
		},
	}
	uc := newNotificationCenter(t, repo)

	require.NoError(t, uc.Delete(context.Background(), "n1"))

	assert.Equal(t, []string{"n1"}, repo.deleted)
	notifications := uc.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "n2", notifications[0].ID)
	assert.Equal(t, 1, uc.UnreadCount())
}
