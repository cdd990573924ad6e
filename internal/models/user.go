package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	DisplayName      *string    `json:"displayName"`
	PasswordHash     string     `json:"-"` // Store hashed password, ignore for JSON serialization
	ResetToken       *string    `json:"-"` // Hashed reset token, set together with ResetTokenExpiry
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"-"`
}

// PublicUser is the profile view exposed to other users
type PublicUser struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
}

// ToPublic converts a User to its public profile view
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" validate:"max=100"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
