package repositories

import (
	"github.com/journalme/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	GetFollowByID(id uint) (*models.Follow, error)
	GetFollowByPair(followerID, followingID uint) (*models.Follow, error)
	UpdateFollowStatus(id uint, status models.FollowStatus) error
	GetPendingSent(userID uint) ([]models.Follow, error)
	GetPendingReceived(userID uint) ([]models.Follow, error)
	GetAcceptedFollowing(userID uint) ([]models.Follow, error)
	GetAcceptedFollowers(userID uint) ([]models.Follow, error)
	GetAcceptedFollowingIDs(userID uint) ([]uint, error)
	GetEdgesBetween(userID uint, otherIDs []uint) ([]models.Follow, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *PostgresFollowRepository) GetFollowByID(id uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.First(&follow, id).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) GetFollowByPair(followerID, followingID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) UpdateFollowStatus(id uint, status models.FollowStatus) error {
	return r.db.Model(&models.Follow{}).Where("id = ?", id).Update("status", status).Error
}

// GetPendingSent returns pending requests the user sent, newest first,
// with the target user preloaded
func (r *PostgresFollowRepository) GetPendingSent(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Preload("Following").
		Where("follower_id = ? AND status = ?", userID, models.FollowPending).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

// GetPendingReceived returns pending requests addressed to the user, newest
// first, with the requester preloaded
func (r *PostgresFollowRepository) GetPendingReceived(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Preload("Follower").
		Where("following_id = ? AND status = ?", userID, models.FollowPending).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) GetAcceptedFollowing(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Preload("Following").
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) GetAcceptedFollowers(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Preload("Follower").
		Where("following_id = ? AND status = ?", userID, models.FollowAccepted).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) GetAcceptedFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("following_id", &ids).Error
	return ids, err
}

// GetEdgesBetween returns every edge connecting the user with any of the given
// users, in either direction, in a single query
func (r *PostgresFollowRepository) GetEdgesBetween(userID uint, otherIDs []uint) ([]models.Follow, error) {
	var follows []models.Follow
	if len(otherIDs) == 0 {
		return follows, nil
	}
	err := r.db.
		Where("(follower_id = ? AND following_id IN ?) OR (following_id = ? AND follower_id IN ?)",
			userID, otherIDs, userID, otherIDs).
		Find(&follows).Error
	return follows, err
}
