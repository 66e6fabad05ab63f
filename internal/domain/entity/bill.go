package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillStatusPending   = "Pending"
	BillStatusPaid      = "Paid"
	BillStatusCancelled = "Cancelled"
)

const (
	BillItemService  = "service"
	BillItemMedicine = "medicine"
)

type BillItem struct {
	Description string          `json:"description"`
	Type        string          `json:"type"` // "service", "medicine"
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

type Bill struct {
	ID             string          `json:"id"`
	PatientID      string          `json:"patient_id"`
	PatientName    string          `json:"patient_name,omitempty"`
	Status         string          `json:"status"` // "Pending", "Paid", "Cancelled"
	Items          []BillItem      `json:"items,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	PromotionID    string          `json:"promotion_id,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"` // "cash", "bank-transfer"
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

// Terminal reports whether the bill can no longer change state.
func (b *Bill) Terminal() bool {
	return b.Status == BillStatusPaid || b.Status == BillStatusCancelled
}
