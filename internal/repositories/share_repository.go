package repositories

import (
	"fmt"

	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// ShareRepository defines the interface for shared-post data operations
type ShareRepository interface {
	CreateShare(share *models.SharedPost) error
	DeleteShare(postID string, userID uint) error
	HasUserSharedPost(postID string, userID uint) (bool, error)
	GetSharesCountByPostID(postID string) (int64, error)
	GetSharesByUserID(userID uint) ([]models.SharedPost, error)
	GetSharedPostIDs(userID uint, postIDs []string) (map[string]bool, error)
}

// PostgresShareRepository implements ShareRepository for PostgreSQL
type PostgresShareRepository struct {
	db *gorm.DB
}

// NewPostgresShareRepository creates a new PostgresShareRepository
func NewPostgresShareRepository(db *gorm.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

// CreateShare creates a new shared post in PostgreSQL
func (r *PostgresShareRepository) CreateShare(share *models.SharedPost) error {
	return r.db.Create(share).Error
}

// DeleteShare removes a shared post from the user's profile
func (r *PostgresShareRepository) DeleteShare(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.SharedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("share not found")
	}
	return nil
}

// HasUserSharedPost checks if a user has already shared a specific post
func (r *PostgresShareRepository) HasUserSharedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.SharedPost{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSharesCountByPostID retrieves the count of shares for a specific post
func (r *PostgresShareRepository) GetSharesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.SharedPost{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetSharesByUserID retrieves the posts a user shared to their profile, newest first
func (r *PostgresShareRepository) GetSharesByUserID(userID uint) ([]models.SharedPost, error) {
	var shares []models.SharedPost
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// GetSharedPostIDs returns which of the given post IDs the user has shared
func (r *PostgresShareRepository) GetSharedPostIDs(userID uint, postIDs []string) (map[string]bool, error) {
	shared := make(map[string]bool)
	if len(postIDs) == 0 {
		return shared, nil
	}
	var shares []models.SharedPost
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&shares).Error; err != nil {
		return nil, err
	}
	for _, s := range shares {
		shared[s.PostID] = true
	}
	return shared, nil
}
