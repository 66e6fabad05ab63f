package restclient

import (
	"context"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/pkg/errors"
)

type restNotificationRepository struct {
	client *Client
}

func NewRestNotificationRepository(client *Client) repository.NotificationRepository {
	return &restNotificationRepository{
		client: client,
	}
}

func (r *restNotificationRepository) List(ctx context.Context) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	if err := r.client.get(ctx, "/notification/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

type unreadCountResult struct {
	Count int `json:"count"`
}

func (r *restNotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var result unreadCountResult
	if err := r.client.get(ctx, "/notification/notifications/unread-count", &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (r *restNotificationRepository) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.BadRequest("Notification id is required", nil)
	}
	return r.client.patch(ctx, "/notification/notifications/"+id+"/read", nil, nil)
}

func (r *restNotificationRepository) MarkAllRead(ctx context.Context) error {
	return r.client.patch(ctx, "/notification/notifications/read-all", nil, nil)
}

func (r *restNotificationRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.BadRequest("Notification id is required", nil)
	}
	return r.client.delete(ctx, "/notification/notifications/"+id)
}
