package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/journalme/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(42, "alice@example.com")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokenVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyExpired(t *testing.T) {
	secret := "test-secret"
	claims := &models.JwtCustomClaims{
		UserID: 7,
		Email:  "late@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifyMissingIdentity(t *testing.T) {
	secret := "test-secret"
	claims := &models.JwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Verify(anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
