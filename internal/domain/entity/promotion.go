package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Promotion struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	DiscountType  string          `json:"discount_type"` // "percentage", "fixed"
	DiscountValue decimal.Decimal `json:"discount_value"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        string          `json:"status"` // "upcoming", "ongoing", "expired" — computed server-side, trusted as-is
}
