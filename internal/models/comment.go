package models

import "gorm.io/gorm"

// Comment represents a comment on a post
type Comment struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID  uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" form:"content" validate:"required,min=1,max=500"`
}

// CommentView is the comment payload returned to the page: the author name
// and avatar always come from the store, never from the submitting client.
type CommentView struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	User      string `json:"user"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"created_at"`
}
