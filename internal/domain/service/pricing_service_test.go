package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dentsync/internal/domain/entity"
)

func item(price int64, quantity int) entity.BillItem {
	return entity.BillItem{
		Description: "item",
		Type:        entity.BillItemService,
		UnitPrice:   decimal.NewFromInt(price),
		Quantity:    quantity,
	}
}

func percentage(value int64) *entity.Promotion {
	return &entity.Promotion{
		ID:            "promo",
		DiscountType:  entity.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(value),
	}
}

func fixed(value int64) *entity.Promotion {
	return &entity.Promotion{
		ID:            "promo",
		DiscountType:  entity.DiscountFixed,
		DiscountValue: decimal.NewFromInt(value),
	}
}

func TestBaseAmount(t *testing.T) {
	ps := NewPricingService()

	tests := []struct {
		name  string
		items []entity.BillItem
		want  int64
	}{
		{"empty", nil, 0},
		{"single line", []entity.BillItem{item(100, 1)}, 100},
		{"quantities multiply", []entity.BillItem{item(25, 3), item(10, 2)}, 95},
		{"non-positive quantity skipped", []entity.BillItem{item(100, 0), item(50, -2), item(30, 1)}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ps.BaseAmount(tt.items)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestDiscount(t *testing.T) {
	ps := NewPricingService()

	tests := []struct {
		name      string
		base      int64
		promotion *entity.Promotion
		want      int64
	}{
		{"nil promotion", 100, nil, 0},
		{"twenty percent of 100", 100, percentage(20), 20},
		{"fixed below base", 100, fixed(30), 30},
		{"fixed above base clamps to base", 50, fixed(80), 50},
		{"hundred percent", 100, percentage(100), 100},
		{"negative value clamps to zero", 100, fixed(-10), 0},
		{"zero base", 0, percentage(20), 0},
		{"unknown type discounts nothing", 100, &entity.Promotion{DiscountType: "mystery", DiscountValue: decimal.NewFromInt(10)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ps.Discount(decimal.NewFromInt(tt.base), tt.promotion)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestQuoteBill(t *testing.T) {
	ps := NewPricingService()

	quote := ps.QuoteBill([]entity.BillItem{item(100, 1)}, percentage(20))
	assert.True(t, quote.BaseAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, quote.FinalAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "promo", quote.PromotionID)

	// Oversized fixed discount never drives the total negative.
	quote = ps.QuoteBill([]entity.BillItem{item(50, 1)}, fixed(80))
	assert.True(t, quote.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, quote.FinalAmount.Equal(decimal.Zero))

	quote = ps.QuoteBill([]entity.BillItem{item(40, 2)}, nil)
	assert.True(t, quote.FinalAmount.Equal(decimal.NewFromInt(80)))
	assert.Empty(t, quote.PromotionID)
}
