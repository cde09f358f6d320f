package repositories

import (
	"fmt"

	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data operations
type BlockRepository interface {
	CreateBlock(block *models.Block) error
	DeleteBlock(blockerID, blockedID uint) error
	HasBlocked(blockerID, blockedID uint) (bool, error)
	IsBlocked(userA, userB uint) (bool, error)
	GetBlockedIDs(userID uint) ([]uint, error)
	GetBlockedUsers(blockerID uint) ([]models.Block, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlock creates a new block in PostgreSQL
func (r *PostgresBlockRepository) CreateBlock(block *models.Block) error {
	return r.db.Create(block).Error
}

// DeleteBlock removes a block from PostgreSQL
func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("block not found")
	}
	return nil
}

// HasBlocked checks if blockerID has blocked blockedID
func (r *PostgresBlockRepository) HasBlocked(blockerID, blockedID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Block{}).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsBlocked checks whether either user has blocked the other
func (r *PostgresBlockRepository) IsBlocked(userA, userB uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Block{}).Where(
		"(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
		userA, userB, userB, userA,
	).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBlockedIDs returns IDs of users this user has blocked or been blocked by
func (r *PostgresBlockRepository) GetBlockedIDs(userID uint) ([]uint, error) {
	var blocks []models.Block
	if err := r.db.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Find(&blocks).Error; err != nil {
		return nil, err
	}
	seen := make(map[uint]bool)
	var ids []uint
	for _, b := range blocks {
		other := b.BlockedID
		if b.BlockedID == userID {
			other = b.BlockerID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

// GetBlockedUsers retrieves the blocks created by a specific user
func (r *PostgresBlockRepository) GetBlockedUsers(blockerID uint) ([]models.Block, error) {
	var blocks []models.Block
	if err := r.db.Where("blocker_id = ?", blockerID).Order("created_at desc").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}
