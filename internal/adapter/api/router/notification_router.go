package router

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/adapter/api/handler"
)

// SetupNotificationRouter sets up the notification center routes
func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler) {
	notificationGroup := e.Group("/v1/notifications")

	notificationGroup.GET("", notificationHandler.GetNotifications)
	notificationGroup.GET("/unread-count", notificationHandler.GetUnreadCount)
	notificationGroup.PATCH("/read-all", notificationHandler.MarkAllRead)
	notificationGroup.PATCH("/:id/read", notificationHandler.MarkRead)
	notificationGroup.DELETE("/:id", notificationHandler.Delete)
}
