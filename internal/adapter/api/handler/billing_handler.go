package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"dentsync/internal/domain/entity"
	"dentsync/internal/usecase"
	"dentsync/pkg/response"
	"dentsync/pkg/utils"
)

type BillingHandler struct {
	billingUseCase *usecase.BillingUseCase
}

func NewBillingHandler(billingUseCase *usecase.BillingUseCase) *BillingHandler {
	return &BillingHandler{
		billingUseCase: billingUseCase,
	}
}

type payBillRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash bank-transfer"`
}

type cancelBillRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type quoteItemRequest struct {
	Description string          `json:"description"`
	Type        string          `json:"type" validate:"required,oneof=service medicine"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
}

type quoteRequest struct {
	Items       []quoteItemRequest `json:"items" validate:"required,min=1,dive"`
	PromotionID string             `json:"promotion_id"`
}

// GetBills returns the cached bills, newest first, paginated for the list view.
func (h *BillingHandler) GetBills(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	bills := h.billingUseCase.Bills()

	total := int64(len(bills))
	start := params.Offset
	if start > len(bills) {
		start = len(bills)
	}
	end := start + params.PageSize
	if end > len(bills) {
		end = len(bills)
	}

	return response.Paginated(c, bills[start:end], total, params.Page, params.PageSize)
}

func (h *BillingHandler) GetBill(c echo.Context) error {
	bill, err := h.billingUseCase.GetBill(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bill)
}

// PayBill moves a pending bill to Paid.
func (h *BillingHandler) PayBill(c echo.Context) error {
	var req payBillRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bill, err := h.billingUseCase.Pay(c.Request().Context(), usecase.PayBillInput{
		BillID:        c.Param("id"),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bill)
}

// CancelBill moves a pending bill to Cancelled. The reason is mandatory and
// checked before any call to the clinic API.
func (h *BillingHandler) CancelBill(c echo.Context) error {
	var req cancelBillRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bill, err := h.billingUseCase.Cancel(c.Request().Context(), usecase.CancelBillInput{
		BillID: c.Param("id"),
		Reason: req.Reason,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, bill)
}

func (h *BillingHandler) GetPromotions(c echo.Context) error {
	return response.Success(c, h.billingUseCase.Promotions())
}

// Quote previews the discount breakdown for a bill draft.
func (h *BillingHandler) Quote(c echo.Context) error {
	var req quoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	items := make([]entity.BillItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.BillItem{
			Description: item.Description,
			Type:        item.Type,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	quote, err := h.billingUseCase.Quote(items, req.PromotionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, quote)
}
