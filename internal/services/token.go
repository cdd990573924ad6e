package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/journalme/backend/internal/models"
)

// tokenTTL bounds the compromise window; there is no revocation list.
const tokenTTL = time.Hour

// TokenService issues and verifies signed bearer tokens
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a bearer token carrying the user's identity with a 1-hour expiry
func (s *TokenService) Issue(userID uint, email string) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a bearer token and returns the identity it carries.
// Invalid signatures, expired tokens and missing claims all fail identically.
func (s *TokenService) Verify(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
