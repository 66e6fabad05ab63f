package handler

import (
	"github.com/labstack/echo/v4"

	"dentsync/internal/infrastructure/session"
	"dentsync/pkg/errors"
	"dentsync/pkg/response"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// GetSession exposes the identity snapshot for widget branding and gating.
// The token itself is never returned.
func (h *SessionHandler) GetSession(c echo.Context) error {
	sess, ok := c.Get("session").(*session.Session)
	if !ok {
		return response.Error(c, errors.Unauthorized("No session loaded", nil))
	}

	return response.Success(c, map[string]interface{}{
		"user_id":  sess.UserID,
		"role":     sess.Role,
		"name":     sess.Name,
		"email":    sess.Email,
		"is_staff": sess.IsStaff(),
	})
}
