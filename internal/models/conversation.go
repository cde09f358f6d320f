package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a two-party message thread (PostgreSQL). UpdatedAt is
// bumped on every send; the conversation list is ordered by it, newest first.
type Conversation struct {
	gorm.Model
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserAID   uint      `json:"user_a_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	UserBID   uint      `json:"user_b_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// OtherParticipant returns the participant that is not userID, or 0 if
// userID is not in the conversation.
func (c *Conversation) OtherParticipant(userID uint) uint {
	switch userID {
	case c.UserAID:
		return c.UserBID
	case c.UserBID:
		return c.UserAID
	default:
		return 0
	}
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return userID == c.UserAID || userID == c.UserBID
}

// ConversationSummary is one row of the conversation list: participant info,
// last-message preview and the unread badge.
type ConversationSummary struct {
	ID              uint   `json:"id"`
	ParticipantName string `json:"participant_name"`
	Username        string `json:"username"`
	AvatarURL       string `json:"avatar_url"`
	LastMessage     string `json:"last_message"`
	LastMessageTime string `json:"last_message_time"`
	UnreadCount     int    `json:"unread_count"`
	IsOnline        bool   `json:"is_online"`
}
