package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentsync/internal/infrastructure/session"
)

func invoke(t *testing.T, m *SessionMiddleware, gated bool) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if gated {
		handler = m.StaffOnly(handler)
	}
	return m.Attach(handler)(c)
}

func TestAttachInjectsSession(t *testing.T) {
	sess := &session.Session{UserID: "u1", Role: session.RoleCustomer}
	m := NewSessionMiddleware(sess)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := m.Attach(func(c echo.Context) error {
		got, ok := c.Get("session").(*session.Session)
		require.True(t, ok)
		assert.Equal(t, "u1", got.UserID)
		return nil
	})(c)
	require.NoError(t, err)
}

func TestStaffOnlyRejectsCustomers(t *testing.T) {
	m := NewSessionMiddleware(&session.Session{UserID: "u1", Role: session.RoleCustomer})

	err := invoke(t, m, true)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestStaffOnlyAdmitsBackOfficeRoles(t *testing.T) {
	for _, role := range []string{session.RoleStaff, session.RoleDentist, session.RoleAdmin} {
		m := NewSessionMiddleware(&session.Session{UserID: "u1", Role: role})
		assert.NoError(t, invoke(t, m, true), role)
	}
}

func TestStaffOnlyWithoutSessionIsUnauthorized(t *testing.T) {
	m := NewSessionMiddleware(&session.Session{UserID: "u1", Role: session.RoleStaff})

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	// StaffOnly without Attach in front of it: nothing in the context.
	err := m.StaffOnly(func(c echo.Context) error { return nil })(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
