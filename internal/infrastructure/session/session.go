package session

import (
	"github.com/golang-jwt/jwt/v4"

	"dentsync/pkg/errors"
)

// Roles known to the clinic platform.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleDentist  = "dentist"
	RoleAdmin    = "admin"
)

// Session is a read-only identity snapshot taken once at startup from the
// bearer token. The payload is decoded without signature verification: it
// drives display and UI branching only, never authorization — the clinic
// backend re-checks every state-changing call.
type Session struct {
	UserID string
	Role   string
	Name   string
	Email  string
	Token  string
}

type tokenClaims struct {
	UserID string `json:"userId"`
	Sub    string `json:"sub"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Load decodes the bearer token into a Session. Expiry is not enforced here;
// a stale token simply fails on the first authenticated call.
func Load(token string) (*Session, error) {
	if token == "" {
		return nil, errors.Unauthorized("A clinic auth token is required", nil)
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errors.Unauthorized("Auth token could not be decoded", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Sub
	}
	if userID == "" {
		return nil, errors.Unauthorized("Auth token carries no user id", nil)
	}

	role := claims.Role
	if role == "" {
		role = RoleCustomer
	}

	return &Session{
		UserID: userID,
		Role:   role,
		Name:   claims.Name,
		Email:  claims.Email,
		Token:  token,
	}, nil
}

// IsStaff reports whether the session may use the back-office surfaces
// (conversation list, billing administration). UI affordance only.
func (s *Session) IsStaff() bool {
	return s.Role == RoleStaff || s.Role == RoleDentist || s.Role == RoleAdmin
}
