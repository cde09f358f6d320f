package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment kinds for messages. Non-image files render as a generic chip.
const (
	MessageAttachmentImage = "image"
	MessageAttachmentFile  = "file"
)

// Message represents one message in a conversation, stored in MongoDB.
// Content is plain text; any markup in it is the client's to escape.
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID uint               `json:"conversation_id" bson:"conversation_id"`
	SenderID       uint               `json:"sender_id" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	AttachmentURL  string             `json:"attachment_url,omitempty" bson:"attachment_url,omitempty"`
	AttachmentKind string             `json:"attachment_kind,omitempty" bson:"attachment_kind,omitempty"`
	IsRead         bool               `json:"is_read" bson:"is_read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// MessageView is the thread payload returned to the messaging page.
type MessageView struct {
	ID             string `json:"id"`
	Content        string `json:"content"`
	SenderUsername string `json:"sender_username"`
	SenderAvatar   string `json:"sender_avatar"`
	IsOwn          bool   `json:"is_own"`
	CreatedAt      string `json:"created_at"`
	HasAttachment  bool   `json:"has_attachment"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	IsImage        bool   `json:"is_image"`
}

// SendMessageRequest defines the send form. The attachment, if any, arrives
// as a multipart part.
type SendMessageRequest struct {
	Content string `form:"content" json:"content"`
}
