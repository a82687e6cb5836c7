package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const testSecret = "test-secret"

func TestVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleAgent)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	principal, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, domain.RoleAgent, principal.Role)
}

func TestVerifyRoleComesFromClaimsVerbatim(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	for _, role := range []domain.Role{domain.RoleEndUser, domain.RoleAgent, domain.RoleTeamLead, domain.RoleAdmin} {
		token, _, err := tm.GenerateToken("user-2", role)
		require.NoError(t, err)

		principal, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, role, principal.Role, "role must never be escalated or remapped")
	}
}

func TestVerifyFailures(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	expired := signToken(t, testSecret, jwt.SigningMethodHS256, time.Now().Add(-time.Hour))
	wrongKey := signToken(t, "other-secret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	wrongMethod := signToken(t, testSecret, jwt.SigningMethodHS512, time.Now().Add(time.Hour))

	testCases := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not-a-jwt"},
		{name: "expired token", token: expired},
		{name: "wrong signing key", token: wrongKey},
		{name: "wrong signing method", token: wrongMethod},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			principal, err := tm.Verify(tc.token)
			assert.Error(t, err)
			assert.Nil(t, principal)
		})
	}
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		UserID: "user-3",
		Role:   domain.RoleEndUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-3",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
