package usecase

import (
	"context"
	"log"
	"sync"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/internal/infrastructure/push"
	"dentsync/pkg/errors"
)

// NotificationUseCase keeps the notification center's cache in step with the
// REST snapshot and the shared notifications room. The unread badge is always
// derived from the cached items, never kept as its own counter, so racing
// pushes and mark-read calls cannot make it drift.
type NotificationUseCase struct {
	notifRepo   repository.NotificationRepository
	pushManager *push.Manager
	publisher   Publisher

	mu            sync.Mutex
	notifications []*entity.Notification // newest first
	sub           *push.Subscription
}

func NewNotificationUseCase(
	notifRepo repository.NotificationRepository,
	pushManager *push.Manager,
	publisher Publisher,
) *NotificationUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &NotificationUseCase{
		notifRepo:   notifRepo,
		pushManager: pushManager,
		publisher:   publisher,
	}
}

// Open fetches the snapshot and joins the notifications room.
func (uc *NotificationUseCase) Open(ctx context.Context) error {
	notifications, err := uc.notifRepo.List(ctx)
	if err != nil {
		log.Printf("Open Error: Failed to list notifications: %v", err)
		return err
	}

	sub, err := uc.pushManager.Subscribe(push.RoomNotifications)
	if err != nil {
		log.Printf("Open Error: Failed to join notification room: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.notifications = notifications
	uc.sub = sub
	unread := uc.unreadLocked()
	uc.mu.Unlock()

	// The server keeps its own unread count; disagreement here means the
	// snapshot and counter endpoints raced. Log it, trust the collection.
	if serverCount, err := uc.notifRepo.UnreadCount(ctx); err == nil && serverCount != unread {
		log.Printf("Open Notice: Server unread count %d differs from derived %d", serverCount, unread)
	}

	go uc.pump(sub)

	return nil
}

func (uc *NotificationUseCase) pump(sub *push.Subscription) {
	for event := range sub.Events() {
		if event.Name != push.EventNewNotification {
			continue
		}
		notification, err := event.Notification()
		if err != nil {
			log.Printf("pump Warning: Malformed newNotification payload: %v", err)
			continue
		}
		uc.merge(notification)
	}
}

// merge prepends a pushed notification unless its id is already cached.
func (uc *NotificationUseCase) merge(notification *entity.Notification) {
	if notification == nil || notification.ID == "" {
		return
	}

	uc.mu.Lock()
	for _, existing := range uc.notifications {
		if existing.ID == notification.ID {
			uc.mu.Unlock()
			return
		}
	}
	uc.notifications = append([]*entity.Notification{notification}, uc.notifications...)
	unread := uc.unreadLocked()
	uc.mu.Unlock()

	uc.publisher.Publish(push.EventNewNotification, *notification)
	uc.publisher.Publish("notificationUnread", unread)
}

// MarkRead marks one notification read on the server, then locally.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.BadRequest("Notification id is required", nil)
	}

	if err := uc.notifRepo.MarkRead(ctx, id); err != nil {
		log.Printf("MarkRead Error: Failed for notification %s: %v", id, err)
		return err
	}

	uc.mu.Lock()
	found := false
	for _, notification := range uc.notifications {
		if notification.ID == id {
			notification.IsRead = true
			found = true
			break
		}
	}
	unread := uc.unreadLocked()
	uc.mu.Unlock()

	if !found {
		log.Printf("MarkRead Warning: Notification %s not in cache", id)
	}

	uc.publisher.Publish("notificationUnread", unread)
	return nil
}

// MarkAllRead flips every cached notification to read after the server call.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) error {
	if err := uc.notifRepo.MarkAllRead(ctx); err != nil {
		log.Printf("MarkAllRead Error: %v", err)
		return err
	}

	uc.mu.Lock()
	for _, notification := range uc.notifications {
		notification.IsRead = true
	}
	uc.mu.Unlock()

	uc.publisher.Publish("notificationUnread", 0)
	return nil
}

// Delete removes a notification on the server, then from the cache.
func (uc *NotificationUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.BadRequest("Notification id is required", nil)
	}

	if err := uc.notifRepo.Delete(ctx, id); err != nil {
		log.Printf("Delete Error: Failed for notification %s: %v", id, err)
		return err
	}

	uc.mu.Lock()
	for i, notification := range uc.notifications {
		if notification.ID == id {
			uc.notifications = append(uc.notifications[:i], uc.notifications[i+1:]...)
			break
		}
	}
	unread := uc.unreadLocked()
	uc.mu.Unlock()

	uc.publisher.Publish("notificationUnread", unread)
	return nil
}

// Notifications returns the cached list, newest first.
func (uc *NotificationUseCase) Notifications() []entity.Notification {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]entity.Notification, 0, len(uc.notifications))
	for _, notification := range uc.notifications {
		out = append(out, *notification)
	}
	return out
}

// UnreadCount is derived from the cached collection on every call.
func (uc *NotificationUseCase) UnreadCount() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.unreadLocked()
}

func (uc *NotificationUseCase) unreadLocked() int {
	count := 0
	for _, notification := range uc.notifications {
		if !notification.IsRead {
			count++
		}
	}
	return count
}

// Close leaves the notifications room.
func (uc *NotificationUseCase) Close() {
	uc.mu.Lock()
	sub := uc.sub
	uc.sub = nil
	uc.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}
