package repositories

import (
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation data operations
type ConversationRepository interface {
	CreateConversation(c *models.Conversation) error
	GetConversationByID(id uint) (*models.Conversation, error)
	GetConversationByParticipants(userA, userB uint) (*models.Conversation, error)
	GetConversationsByUserID(userID uint) ([]models.Conversation, error)
	TouchConversation(id uint, t time.Time) error
}

// PostgresConversationRepository implements ConversationRepository for PostgreSQL
type PostgresConversationRepository struct {
	db *gorm.DB
}

// NewPostgresConversationRepository creates a new PostgresConversationRepository
func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// CreateConversation creates a new conversation in PostgreSQL
func (r *PostgresConversationRepository) CreateConversation(c *models.Conversation) error {
	return r.db.Create(c).Error
}

// GetConversationByID retrieves a conversation by ID from PostgreSQL
func (r *PostgresConversationRepository) GetConversationByID(id uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationByParticipants retrieves the conversation between two users
// regardless of which side started it
func (r *PostgresConversationRepository) GetConversationByParticipants(userA, userB uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.Where(
		"(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
		userA, userB, userB, userA,
	).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationsByUserID retrieves a user's conversations, most recently
// active first
func (r *PostgresConversationRepository) GetConversationsByUserID(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).Order("updated_at desc").Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// TouchConversation bumps a conversation's activity timestamp, moving it to
// the top of the list
func (r *PostgresConversationRepository) TouchConversation(id uint, t time.Time) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", id).Update("updated_at", t).Error
}
