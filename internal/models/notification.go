package models

import "time"

// Notification types mirrored from the product surface.
const (
	NotificationFriendRequest = "friend_request"
	NotificationFriendAccept  = "friend_accept"
	NotificationPostLike      = "post_like"
	NotificationPostComment   = "post_comment"
	NotificationPostShare     = "post_share"
	NotificationMessage       = "message"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	Title       string    `json:"title" gorm:"size:200"`
	Message     string    `json:"message"`
	Link        string    `json:"link" gorm:"size:500"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
