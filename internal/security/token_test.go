package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "a-test-secret-that-is-long-enough-for-hmac"

func TestTokenManager_AccessToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken(42, "ana@example.com", "manager")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestTokenManager_RefreshToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateRefreshToken(42, "ana@example.com")
	assert.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.Empty(t, claims.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken(42, "ana@example.com", "manager")
	assert.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)
	other := NewTokenManager("a-completely-different-secret-value-here", 15*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken(42, "ana@example.com", "manager")
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Tampered(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)

	token, err := tm.GenerateAccessToken(42, "ana@example.com", "manager")
	assert.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	_, err = tm.ValidateToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 15*time.Minute, 7*24*time.Hour)

	_, err := tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
