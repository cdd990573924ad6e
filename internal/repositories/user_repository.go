package repositories

import (
	"time"

	"github.com/journalme/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	UpdateUser(user *models.User) error
	ClearResetToken(userID uint, passwordHash string) error
	GetUsersWithActiveResetToken(now time.Time) ([]models.User, error)
	SearchUsers(query string, excludeID uint, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email from PostgreSQL
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves all users whose ID is in the given set
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// ClearResetToken replaces the password hash and clears the reset token and
// its expiry in a single update, so the token is single-use.
func (r *PostgresUserRepository) ClearResetToken(userID uint, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash":      passwordHash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}).Error
}

// GetUsersWithActiveResetToken returns users whose reset token has not expired yet
func (r *PostgresUserRepository) GetUsersWithActiveResetToken(now time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("reset_token IS NOT NULL AND reset_token_expiry > ?", now).Find(&users).Error
	return users, err
}

// SearchUsers searches for users by display name or email (case-insensitive),
// excluding the given user ID
func (r *PostgresUserRepository) SearchUsers(query string, excludeID uint, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("id <> ?", excludeID).
		Where("LOWER(email) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
