package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"dentsync/internal/domain/entity"
	"dentsync/internal/domain/repository"
	"dentsync/internal/domain/service"
	"dentsync/internal/infrastructure/push"
	"dentsync/internal/infrastructure/ratelimit"
	"dentsync/pkg/errors"
)

// BillingUseCase reconciles the bill list against the shared bills room and
// drives the pay/cancel transitions. Pending is the only state a bill can
// leave; Paid and Cancelled are terminal.
type BillingUseCase struct {
	billRepo    repository.BillRepository
	promoRepo   repository.PromotionRepository
	pricing     *service.PricingService
	pushManager *push.Manager
	publisher   Publisher
	rateLimiter *ratelimit.RateLimiter

	mu         sync.Mutex
	bills      []*entity.Bill // newest first
	promotions []*entity.Promotion
	sub        *push.Subscription
}

func NewBillingUseCase(
	billRepo repository.BillRepository,
	promoRepo repository.PromotionRepository,
	pricing *service.PricingService,
	pushManager *push.Manager,
	publisher Publisher,
	rateLimiter *ratelimit.RateLimiter,
) *BillingUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &BillingUseCase{
		billRepo:    billRepo,
		promoRepo:   promoRepo,
		pricing:     pricing,
		pushManager: pushManager,
		publisher:   publisher,
		rateLimiter: rateLimiter,
	}
}

// Open fetches the bill and promotion snapshots and joins the bills room.
func (uc *BillingUseCase) Open(ctx context.Context) error {
	bills, err := uc.billRepo.List(ctx)
	if err != nil {
		log.Printf("Open Error: Failed to list bills: %v", err)
		return err
	}

	promotions, err := uc.promoRepo.List(ctx)
	if err != nil {
		// Promotions only affect quoting; billing still works without them.
		log.Printf("Open Warning: Failed to list promotions: %v", err)
		promotions = nil
	}

	sub, err := uc.pushManager.Subscribe(push.RoomBills)
	if err != nil {
		log.Printf("Open Error: Failed to join bill room: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.bills = bills
	uc.promotions = promotions
	uc.sub = sub
	uc.mu.Unlock()

	go uc.pump(sub)

	return nil
}

func (uc *BillingUseCase) pump(sub *push.Subscription) {
	for event := range sub.Events() {
		bill, err := event.Bill()
		if err != nil {
			log.Printf("pump Warning: Malformed %s payload: %v", event.Name, err)
			continue
		}

		switch event.Name {
		case push.EventNewBill:
			// Insert-if-absent: our own optimistic insert may already hold
			// this id when the broadcast echo arrives.
			uc.merge(bill, false)
		case push.EventBillUpdate, push.EventBankTransferPaid:
			// Update-in-place, or insert when another client paid a bill we
			// have not fetched yet.
			uc.merge(bill, true)
		}
	}
}

// merge upserts a bill by id. With replace set, an existing entry is
// overwritten; otherwise a cached id wins and the event is a no-op.
func (uc *BillingUseCase) merge(bill *entity.Bill, replace bool) {
	if bill == nil || bill.ID == "" {
		return
	}

	uc.mu.Lock()
	updated := false
	for i, existing := range uc.bills {
		if existing.ID == bill.ID {
			if !replace {
				uc.mu.Unlock()
				return
			}
			uc.bills[i] = bill
			updated = true
			break
		}
	}
	if !updated {
		uc.bills = append([]*entity.Bill{bill}, uc.bills...)
	}
	billCopy := *bill
	uc.mu.Unlock()

	uc.publisher.Publish(push.EventBillUpdate, billCopy)
}

type PayBillInput struct {
	BillID        string
	PaymentMethod string
}

// Pay transitions a pending bill to Paid.
func (uc *BillingUseCase) Pay(ctx context.Context, input PayBillInput) (*entity.Bill, error) {
	if input.BillID == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow("pay_bill")
	if !allowed {
		log.Printf("Pay Rate Limited: must wait %v", waitTime)
		return nil, errors.TooManyRequests("Too many payment attempts. Please wait.", waitTime)
	}

	if cached := uc.find(input.BillID); cached != nil && cached.Terminal() {
		return nil, errors.Conflict("Bill is already " + cached.Status)
	}

	bill, err := uc.billRepo.Pay(ctx, input.BillID, input.PaymentMethod)
	if err != nil {
		log.Printf("Pay Error: Failed for bill %s: %v", input.BillID, err)
		return nil, err
	}

	uc.merge(bill, true)
	return bill, nil
}

type CancelBillInput struct {
	BillID string
	Reason string
}

// Cancel transitions a pending bill to Cancelled. An empty reason is rejected
// before any network call.
func (uc *BillingUseCase) Cancel(ctx context.Context, input CancelBillInput) (*entity.Bill, error) {
	if input.BillID == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, errors.BadRequest("A cancellation reason is required", nil)
	}

	if cached := uc.find(input.BillID); cached != nil && cached.Terminal() {
		return nil, errors.Conflict("Bill is already " + cached.Status)
	}

	bill, err := uc.billRepo.Cancel(ctx, input.BillID, strings.TrimSpace(input.Reason))
	if err != nil {
		log.Printf("Cancel Error: Failed for bill %s: %v", input.BillID, err)
		return nil, err
	}

	uc.merge(bill, true)
	return bill, nil
}

// Quote computes the discount breakdown for a bill draft against a cached
// promotion. Only ongoing promotions apply; status comes from the server.
func (uc *BillingUseCase) Quote(items []entity.BillItem, promotionID string) (service.Quote, error) {
	var promotion *entity.Promotion

	if promotionID != "" {
		uc.mu.Lock()
		for _, p := range uc.promotions {
			if p.ID == promotionID {
				copied := *p
				promotion = &copied
				break
			}
		}
		uc.mu.Unlock()

		if promotion == nil {
			return service.Quote{}, errors.NotFound("Promotion", nil)
		}
		if promotion.Status != "ongoing" {
			return service.Quote{}, errors.BadRequest("Promotion is not active", nil)
		}
	}

	return uc.pricing.QuoteBill(items, promotion), nil
}

// Bills returns the cached list, newest first.
func (uc *BillingUseCase) Bills() []entity.Bill {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]entity.Bill, 0, len(uc.bills))
	for _, bill := range uc.bills {
		out = append(out, *bill)
	}
	return out
}

// Promotions returns the cached promotions.
func (uc *BillingUseCase) Promotions() []entity.Promotion {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]entity.Promotion, 0, len(uc.promotions))
	for _, promotion := range uc.promotions {
		out = append(out, *promotion)
	}
	return out
}

// GetBill returns one bill, from cache when possible, falling back to the
// API for ids the snapshot missed.
func (uc *BillingUseCase) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	if id == "" {
		return nil, errors.BadRequest("Bill id is required", nil)
	}

	if cached := uc.find(id); cached != nil {
		return cached, nil
	}

	bill, err := uc.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.merge(bill, false)
	return bill, nil
}

func (uc *BillingUseCase) find(id string) *entity.Bill {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, bill := range uc.bills {
		if bill.ID == id {
			copied := *bill
			return &copied
		}
	}
	return nil
}

// Close leaves the bills room.
func (uc *BillingUseCase) Close() {
	uc.mu.Lock()
	sub := uc.sub
	uc.sub = nil
	uc.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}
