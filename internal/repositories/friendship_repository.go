package repositories

import (
	"fmt"

	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship and friend
// request data operations
type FriendshipRepository interface {
	CreateFriendRequest(req *models.FriendRequest) error
	GetFriendRequestByID(id uint) (*models.FriendRequest, error)
	GetFriendRequest(fromUserID, toUserID uint) (*models.FriendRequest, error)
	DeleteFriendRequest(fromUserID, toUserID uint) error
	DeleteFriendRequestByID(id uint) error
	GetIncomingRequesterIDs(toUserID uint) ([]uint, error)
	GetOutgoingRequestIDs(fromUserID uint) ([]uint, error)
	CreateFriendship(userID, friendID uint) error
	DeleteFriendship(userID, friendID uint) error
	AreFriends(userID, friendID uint) (bool, error)
	GetFriendIDs(userID uint) ([]uint, error)
	GetFriendsCount(userID uint) (int64, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// CreateFriendRequest creates a new friend request in PostgreSQL
func (r *PostgresFriendshipRepository) CreateFriendRequest(req *models.FriendRequest) error {
	return r.db.Create(req).Error
}

// GetFriendRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetFriendRequestByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetFriendRequest retrieves a friend request by its user pair
func (r *PostgresFriendshipRepository) GetFriendRequest(fromUserID, toUserID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// DeleteFriendRequest deletes a friend request by its user pair
func (r *PostgresFriendshipRepository) DeleteFriendRequest(fromUserID, toUserID uint) error {
	return r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).Delete(&models.FriendRequest{}).Error
}

// DeleteFriendRequestByID deletes a friend request by ID
func (r *PostgresFriendshipRepository) DeleteFriendRequestByID(id uint) error {
	return r.db.Delete(&models.FriendRequest{}, id).Error
}

// GetIncomingRequesterIDs returns IDs of users who sent requests to this user
func (r *PostgresFriendshipRepository) GetIncomingRequesterIDs(toUserID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.FriendRequest{}).Where("to_user_id = ?", toUserID).Pluck("from_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetOutgoingRequestIDs returns IDs of users this user has sent requests to
func (r *PostgresFriendshipRepository) GetOutgoingRequestIDs(fromUserID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.FriendRequest{}).Where("from_user_id = ?", fromUserID).Pluck("to_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateFriendship writes the accepted friendship in both directions
func (r *PostgresFriendshipRepository) CreateFriendship(userID, friendID uint) error {
	if err := r.db.Create(&models.Friendship{UserID: userID, FriendID: friendID}).Error; err != nil {
		return err
	}
	return r.db.Create(&models.Friendship{UserID: friendID, FriendID: userID}).Error
}

// DeleteFriendship removes the friendship in both directions
func (r *PostgresFriendshipRepository) DeleteFriendship(userID, friendID uint) error {
	res := r.db.Where(
		"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, friendID, friendID, userID,
	).Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friendship not found")
	}
	return nil
}

// AreFriends checks whether two users are friends
func (r *PostgresFriendshipRepository) AreFriends(userID, friendID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Friendship{}).Where("user_id = ? AND friend_id = ?", userID, friendID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFriendIDs returns the IDs of a user's friends
func (r *PostgresFriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Friendship{}).Where("user_id = ?", userID).Pluck("friend_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetFriendsCount returns the number of friends a user has
func (r *PostgresFriendshipRepository) GetFriendsCount(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Friendship{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
