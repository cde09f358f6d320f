package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment kinds accepted by the compose surface.
const (
	AttachmentImage = "image"
	AttachmentVideo = "video"
)

// PostAttachment is the optional single media item on a post.
type PostAttachment struct {
	URL  string `json:"url" bson:"url"`
	Kind string `json:"kind" bson:"kind"` // "image" or "video"
}

// Post represents a feed post stored in MongoDB.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Content       string             `json:"content" bson:"content"`
	Attachment    *PostAttachment    `json:"attachment,omitempty" bson:"attachment,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	SharesCount   int                `json:"shares_count" bson:"shares_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the compose form. The media file itself arrives
// as a multipart part, not in this struct.
type CreatePostRequest struct {
	Content string `form:"content" json:"content"`
}

// ReportPostRequest defines the body for reporting a post.
type ReportPostRequest struct {
	Reason string `json:"reason" form:"reason" validate:"omitempty,max=500"`
}
