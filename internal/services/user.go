package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/repositories"
	"github.com/journalme/backend/pkg/mailer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resetTokenTTL is how long a password-reset token stays valid
const resetTokenTTL = time.Hour

// UserService orchestrates the account lifecycle: registration,
// authentication, profile updates and the password-reset protocol.
type UserService struct {
	logger    *zap.Logger
	repo      repositories.UserRepository
	passwords *PasswordService
	mailer    mailer.Mailer
}

// NewUserService creates a new UserService
func NewUserService(logger *zap.Logger, repo repositories.UserRepository, passwords *PasswordService, m mailer.Mailer) *UserService {
	return &UserService{
		logger:    logger,
		repo:      repo,
		passwords: passwords,
		mailer:    m,
	}
}

// canonicalEmail folds emails to a single canonical form so uniqueness does
// not depend on the store's collation.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account and returns its public view
func (s *UserService) CreateUser(email, password string) (*models.PublicUser, error) {
	email = canonicalEmail(email)

	if verr := s.passwords.ValidatePassword(password); verr != nil {
		return nil, verr
	}

	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to look up user by email", zap.Error(err))
		return nil, ErrInternal
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, ErrInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.CreateUser(user); err != nil {
		// The unique index on email closes the check-then-create race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, ErrInternal
	}

	public := user.ToPublic()
	return &public, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong password are
// indistinguishable: both return (nil, nil).
func (s *UserService) AuthenticateUser(email, password string) (*models.PublicUser, error) {
	if email == "" || password == "" {
		return nil, nil
	}

	user, err := s.repo.GetUserByEmail(canonicalEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to look up user by email", zap.Error(err))
		return nil, ErrInternal
	}

	ok, err := s.passwords.Compare(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is malformed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, ErrInternal
	}
	if !ok {
		return nil, nil
	}

	public := user.ToPublic()
	return &public, nil
}

// FindByEmail returns a user's public view, or nil when absent
func (s *UserService) FindByEmail(email string) (*models.PublicUser, error) {
	user, err := s.repo.GetUserByEmail(canonicalEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, ErrInternal
	}
	public := user.ToPublic()
	return &public, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}
	return user, nil
}

// UpdateProfile sets or clears the user's display name
func (s *UserService) UpdateProfile(userID uint, displayName string) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		user.DisplayName = nil
	} else {
		user.DisplayName = &displayName
	}

	if err := s.repo.UpdateUser(user); err != nil {
		s.logger.Error("failed to update profile", zap.Uint("user_id", userID), zap.Error(err))
		return nil, ErrInternal
	}
	return user, nil
}

// SetResetToken hashes a reset token and stores it alongside its expiry
func (s *UserService) SetResetToken(userID uint, token string, expiry time.Time) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	hashed, err := s.passwords.HashResetToken(token)
	if err != nil {
		s.logger.Error("failed to hash reset token", zap.Error(err))
		return ErrInternal
	}

	user.ResetToken = &hashed
	user.ResetTokenExpiry = &expiry
	if err := s.repo.UpdateUser(user); err != nil {
		s.logger.Error("failed to store reset token", zap.Uint("user_id", userID), zap.Error(err))
		return ErrInternal
	}
	return nil
}

// FindByResetToken resolves a reset token to its user, or nil when the token
// matches no unexpired hash. Tokens are stored salted, so this is a linear
// scan over users with an active reset request.
func (s *UserService) FindByResetToken(token string) (*models.User, error) {
	users, err := s.repo.GetUsersWithActiveResetToken(time.Now())
	if err != nil {
		s.logger.Error("failed to scan reset tokens", zap.Error(err))
		return nil, ErrInternal
	}

	for i := range users {
		if users[i].ResetToken == nil {
			continue
		}
		ok, err := s.passwords.Compare(token, *users[i].ResetToken)
		if err != nil {
			continue
		}
		if ok {
			return &users[i], nil
		}
	}
	return nil, nil
}

// ResetPassword replaces the user's password and clears the reset token and
// its expiry, making the token single-use
func (s *UserService) ResetPassword(userID uint, newPassword string) error {
	if verr := s.passwords.ValidatePassword(newPassword); verr != nil {
		return verr
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return ErrInternal
	}

	if err := s.repo.ClearResetToken(userID, hash); err != nil {
		s.logger.Error("failed to reset password", zap.Uint("user_id", userID), zap.Error(err))
		return ErrInternal
	}
	return nil
}

// ForgotPassword starts the reset protocol. For unknown emails it does
// nothing but still succeeds, so callers cannot probe which accounts exist.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(canonicalEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("failed to look up user by email", zap.Error(err))
		return ErrInternal
	}

	token, err := s.passwords.GenerateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return ErrInternal
	}

	if err := s.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		s.logger.Error("failed to send reset email", zap.String("email", user.Email), zap.Error(err))
		return ErrInternal
	}
	return nil
}
