package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = HashPassword(strings.Repeat("x", 100))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, expiresAt, err := GenerateJWT(42, "secret", time.Hour, "mini-banking")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseAndValidateJWT(token, "secret", "mini-banking")
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)

	_, err = ParseAndValidateJWT(token, "other-secret", "mini-banking")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, _, err := GenerateJWT(42, "secret", -time.Minute, "mini-banking")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
