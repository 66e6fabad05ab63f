package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoadDecodesClaims(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"userId": "user-42",
		"role":   "dentist",
		"name":   "Drg. Sari",
		"email":  "sari@clinic.test",
	})

	sess, err := Load(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", sess.UserID)
	assert.Equal(t, RoleDentist, sess.Role)
	assert.Equal(t, "Drg. Sari", sess.Name)
	assert.Equal(t, "sari@clinic.test", sess.Email)
	assert.Equal(t, token, sess.Token)
	assert.True(t, sess.IsStaff())
}

func TestLoadFallsBackToSubAndCustomerRole(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user-7"})

	sess, err := Load(token)
	require.NoError(t, err)

	assert.Equal(t, "user-7", sess.UserID)
	assert.Equal(t, RoleCustomer, sess.Role)
	assert.False(t, sess.IsStaff())
}

func TestLoadDoesNotVerifySignature(t *testing.T) {
	// The agent never holds the backend's signing key; the payload is trusted
	// for display only, so a token signed with any key must decode.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "user-9",
		"role":   "staff",
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	sess, err := Load(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", sess.UserID)
}

func TestLoadRejectsBadTokens(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load("not-a-jwt")
	assert.Error(t, err)

	_, err = Load(signToken(t, jwt.MapClaims{"role": "staff"}))
	assert.Error(t, err, "a token without a user id is unusable")
}

func TestIsStaffRoles(t *testing.T) {
	tests := []struct {
		role  string
		staff bool
	}{
		{RoleCustomer, false},
		{RoleStaff, true},
		{RoleDentist, true},
		{RoleAdmin, true},
	}

	for _, tt := range tests {
		sess := &Session{UserID: "u", Role: tt.role}
		assert.Equal(t, tt.staff, sess.IsStaff(), tt.role)
	}
}
