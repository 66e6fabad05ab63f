package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
	"dentsync/internal/adapter/api/middleware"
)

// SetupBillingRouter sets up bill, promotion and quoting routes. Billing
// administration is staff-gated.
func SetupBillingRouter(e *echo.Echo, billingHandler *handler.BillingHandler, sessionMiddleware *middleware.SessionMiddleware) {
	billGroup := e.Group("/v1/bills")

	billGroup.GET("", billingHandler.GetBills)
	billGroup.GET("/:id", billingHandler.GetBill)
	billGroup.PATCH("/:id/pay", billingHandler.PayBill)
	billGroup.PATCH("/:id/cancel", billingHandler.CancelBill, sessionMiddleware.StaffOnly)

	e.GET("/v1/promotions", billingHandler.GetPromotions)
	e.POST("/v1/billing/quote", billingHandler.Quote, sessionMiddleware.StaffOnly)
}
