package handler

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/usecase"
	"dentsync/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

// GetNotifications returns the cached notification list, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	return response.Success(c, h.notificationUseCase.Notifications())
}

// GetUnreadCount returns the badge count, derived from the cache.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	return response.Success(c, map[string]int{"count": h.notificationUseCase.UnreadCount()})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": h.notificationUseCase.UnreadCount()})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkAllRead(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": 0})
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notificationUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": h.notificationUseCase.UnreadCount()})
}
