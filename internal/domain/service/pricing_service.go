package service

import (
	"github.com/shopspring/decimal"

	"dentsync/internal/domain/entity"
)

// Quote is the result of a discount computation for a bill draft.
type Quote struct {
	BaseAmount     decimal.Decimal `json:"base_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	PromotionID    string          `json:"promotion_id,omitempty"`
}

// PricingService computes bill totals and promotion discounts. Pure
// arithmetic, decimal throughout; the backend recomputes authoritatively when
// the bill is created.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// BaseAmount sums unit price times quantity across service and medicine line
// items.
func (ps *PricingService) BaseAmount(items []entity.BillItem) decimal.Decimal {
	base := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		base = base.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return base
}

// Discount applies a promotion to a base amount. Percentage promotions take
// base*value/100, fixed promotions take the value itself; either way the
// discount is clamped to [0, base]. A nil promotion discounts nothing.
func (ps *PricingService) Discount(base decimal.Decimal, promotion *entity.Promotion) decimal.Decimal {
	if promotion == nil || base.Sign() <= 0 {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promotion.DiscountType {
	case entity.DiscountPercentage:
		discount = base.Mul(promotion.DiscountValue).Div(decimal.NewFromInt(100))
	case entity.DiscountFixed:
		discount = promotion.DiscountValue
	default:
		return decimal.Zero
	}

	if discount.Sign() < 0 {
		return decimal.Zero
	}
	if discount.GreaterThan(base) {
		return base
	}
	return discount
}

// QuoteBill produces the full base/discount/final breakdown for a draft.
func (ps *PricingService) QuoteBill(items []entity.BillItem, promotion *entity.Promotion) Quote {
	base := ps.BaseAmount(items)
	discount := ps.Discount(base, promotion)

	final := base.Sub(discount)
	if final.Sign() < 0 {
		final = decimal.Zero
	}

	quote := Quote{
		BaseAmount:     base,
		DiscountAmount: discount,
		FinalAmount:    final,
	}
	if promotion != nil {
		quote.PromotionID = promotion.ID
	}
	return quote
}
