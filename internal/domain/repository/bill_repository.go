package repository

import (
	"context"

	"dentsync/internal/domain/entity"
)

type BillRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	List(ctx context.Context) ([]*entity.Bill, error)
	Pay(ctx context.Context, id, paymentMethod string) (*entity.Bill, error)
	Cancel(ctx context.Context, id, reason string) (*entity.Bill, error)
}

type PromotionRepository interface {
	List(ctx context.Context) ([]*entity.Promotion, error)
}
