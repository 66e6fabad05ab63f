package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dentsync/internal/infrastructure/session"
)

// SessionMiddleware injects the startup identity snapshot into every request.
// The local surface is only reachable by the widget shell, so there is no
// per-request token check; the remote API enforces the real authorization.
type SessionMiddleware struct {
	sess *session.Session
}

func NewSessionMiddleware(sess *session.Session) *SessionMiddleware {
	return &SessionMiddleware{
		sess: sess,
	}
}

func (m *SessionMiddleware) Attach(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set("session", m.sess)
		return next(c)
	}
}

// StaffOnly gates back-office widgets (conversation list, billing admin).
// UI affordance only; the clinic backend re-checks every call.
func (m *SessionMiddleware) StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := c.Get("session").(*session.Session)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "No session loaded")
		}

		if !sess.IsStaff() {
			return echo.NewHTTPError(http.StatusForbidden, "Staff privileges required")
		}

		return next(c)
	}
}
