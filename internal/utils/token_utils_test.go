package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", []string{"org-a", "org-b"}, "secret", time.Hour, "ledger-engine")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "ledger-engine")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, []string{"org-a", "org-b"}, claims.Organizations)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("user-1", []string{"org-a"}, "secret", time.Hour, "ledger-engine")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "ledger-engine")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, err := GenerateJWT("user-1", []string{"org-a"}, "secret", -time.Minute, "ledger-engine")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "ledger-engine")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateJWT_RequiresScope(t *testing.T) {
	_, err := GenerateJWT("", []string{"org-a"}, "secret", time.Hour, "i")
	assert.Error(t, err)
	_, err = GenerateJWT("user-1", nil, "secret", time.Hour, "i")
	assert.Error(t, err)
}
