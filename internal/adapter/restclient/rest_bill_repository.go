package restclient

import (
	"context"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/pkg/errors"
)

type restBillRepository struct {
	client *Client
}

func NewRestBillRepository(client *Client) repository.BillRepository {
	return &restBillRepository{
		client: client,
	}
}

func (r *restBillRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	if id == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}

	var bill entity.Bill
	if err := r.client.get(ctx, "/bill/get-bill/"+id, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *restBillRepository) List(ctx context.Context) ([]*entity.Bill, error) {
	var bills []*entity.Bill
	if err := r.client.get(ctx, "/bill/get-all-bill", &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

type payBillBody struct {
	PaymentMethod string `json:"payment_method"`
}

func (r *restBillRepository) Pay(ctx context.Context, id, paymentMethod string) (*entity.Bill, error) {
	if id == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}

	var bill entity.Bill
	if err := r.client.patch(ctx, "/bill/pay-bill/"+id, payBillBody{PaymentMethod: paymentMethod}, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

type cancelBillBody struct {
	Reason string `json:"reason"`
}

func (r *restBillRepository) Cancel(ctx context.Context, id, reason string) (*entity.Bill, error) {
	if id == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}

	var bill entity.Bill
	if err := r.client.patch(ctx, "/bill/cancel-bill/"+id, cancelBillBody{Reason: reason}, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

type restPromotionRepository struct {
	client *Client
}

func NewRestPromotionRepository(client *Client) repository.PromotionRepository {
	return &restPromotionRepository{
		client: client,
	}
}

func (r *restPromotionRepository) List(ctx context.Context) ([]*entity.Promotion, error) {
	var promotions []*entity.Promotion
	if err := r.client.get(ctx, "/promotion/get-all-promotion", &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}
