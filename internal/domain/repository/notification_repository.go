package repository

import (
	"context"

	"dentsync/internal/domain/entity"
)

type NotificationRepository interface {
	List(ctx context.Context) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
