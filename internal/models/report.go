package models

import "time"

// PostReport records a user reporting a post. Reporting the same post twice
// is idempotent.
type PostReport struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_report"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_report"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
