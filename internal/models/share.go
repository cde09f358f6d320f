package models

import "time"

// SharedPost represents a post shared to a user's profile. A user can share
// a given post at most once.
type SharedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_share"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_share"`
	Caption   string    `json:"caption"` // Optional caption added in the share modal
	CreatedAt time.Time `json:"created_at"`
}

// SharePostRequest defines the request body for sharing a post
type SharePostRequest struct {
	Caption string `json:"caption" form:"caption" validate:"omitempty,max=500"`
}
