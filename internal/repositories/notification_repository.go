package repositories

import (
	"github.com/socialconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	CreateNotification(n *models.Notification) error
	GetNotificationsByRecipient(recipientID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkRead(id, recipientID uint) error
	MarkAllRead(recipientID uint) error
	DeleteNotification(id, recipientID uint) error
	DeleteAllByRecipient(recipientID uint) error
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// CreateNotification creates a notification unless the actor is the
// recipient: users are never notified about their own actions.
func (r *PostgresNotificationRepository) CreateNotification(n *models.Notification) error {
	if n.SenderID == n.RecipientID {
		return nil
	}
	return r.db.Create(n).Error
}

// GetNotificationsByRecipient retrieves a user's notifications, newest first
func (r *PostgresNotificationRepository) GetNotificationsByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.Where("recipient_id = ?", recipientID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount returns the number of unread notifications for a user
func (r *PostgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead marks one of the recipient's notifications as read
func (r *PostgresNotificationRepository) MarkRead(id, recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ? AND recipient_id = ?", id, recipientID).Update("is_read", true).Error
}

// MarkAllRead marks all of the recipient's notifications as read
func (r *PostgresNotificationRepository) MarkAllRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}

// DeleteNotification deletes one of the recipient's notifications
func (r *PostgresNotificationRepository) DeleteNotification(id, recipientID uint) error {
	return r.db.Where("id = ? AND recipient_id = ?", id, recipientID).Delete(&models.Notification{}).Error
}

// DeleteAllByRecipient clears all of the recipient's notifications
func (r *PostgresNotificationRepository) DeleteAllByRecipient(recipientID uint) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}
