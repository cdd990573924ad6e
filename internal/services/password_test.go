package services

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	ok, err := svc.Compare("hunter2hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Compare("wrong-password", hash)
	require.NoError(t, err, "a mismatch is not an error")
	assert.False(t, ok)
}

func TestCompareMalformedHash(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	ok, err := svc.Compare("whatever", "not-a-bcrypt-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
	assert.False(t, ok)
}

func TestGenerateResetToken(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	token, err := svc.GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64, "256 bits hex-encoded")

	raw, err := hex.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	second, err := svc.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, second)
}

func TestHashResetToken(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	token, err := svc.GenerateResetToken()
	require.NoError(t, err)

	hashed, err := svc.HashResetToken(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, hashed, "raw token must never be stored")

	ok, err := svc.Compare(token, hashed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidatePassword(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		reason   string
	}{
		{"empty", "", "Password is required"},
		{"too short", "short", "Password must be at least 8 characters"},
		{"seven chars", "1234567", "Password must be at least 8 characters"},
		{"seven multibyte chars", "ééééééé", "Password must be at least 8 characters"},
		{"eight chars", "12345678", ""},
		{"eight multibyte chars", "éééééééé", ""},
		{"long", "a perfectly fine passphrase", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := svc.ValidatePassword(tt.password)
			if tt.reason == "" {
				assert.Nil(t, verr)
			} else {
				require.NotNil(t, verr)
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}
