package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
	"dentsync/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	sessionMiddleware *middleware.SessionMiddleware,
	messengerHandler *handler.MessengerHandler,
	notificationHandler *handler.NotificationHandler,
	billingHandler *handler.BillingHandler,
	sessionHandler *handler.SessionHandler,
	streamHandler *handler.StreamHandler,
) {
	e.Use(sessionMiddleware.Attach)

	SetupHealthRouter(e)
	SetupSessionRouter(e, sessionHandler)
	SetupMessengerRouter(e, messengerHandler, sessionMiddleware)
	SetupNotificationRouter(e, notificationHandler)
	SetupBillingRouter(e, billingHandler, sessionMiddleware)
	SetupStreamRouter(e, streamHandler)
}
