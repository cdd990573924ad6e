package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8

	// resetTokenHashCost is the fixed bcrypt cost used for reset tokens.
	// Tokens are already high-entropy, so the configurable password cost
	// does not apply to them.
	resetTokenHashCost = 10
)

// PasswordService hashes and verifies passwords and reset tokens
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes a password with bcrypt
func (s *PasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether the password matches the hash. A mismatch is not an
// error; only a malformed hash is.
func (s *PasswordService) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrInvalidHash
}

// GenerateResetToken returns a cryptographically random 256-bit token,
// hex-encoded. Callers must hash it before persisting.
func (s *PasswordService) GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken hashes a reset token for storage
func (s *PasswordService) HashResetToken(token string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), resetTokenHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ValidatePassword checks password strength, returning a human-readable
// reason when the password is rejected
func (s *PasswordService) ValidatePassword(password string) *ValidationError {
	if password == "" {
		return &ValidationError{Reason: "Password is required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Reason: "Password must be at least 8 characters"}
	}
	return nil
}
