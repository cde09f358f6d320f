package models

import "gorm.io/gorm"

// FriendRequest represents a pending friend request between two users.
// Accepting deletes the request and creates the friendship rows; rejecting
// just deletes it.
type FriendRequest struct {
	gorm.Model
	FromUserID uint `json:"from_user_id" gorm:"index;uniqueIndex:idx_from_to_request"`
	ToUserID   uint `json:"to_user_id" gorm:"index;uniqueIndex:idx_from_to_request"`
}

// Friendship represents an accepted friendship. Rows are written in both
// directions so "friends of X" is a single indexed lookup.
type Friendship struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"index;uniqueIndex:idx_user_friend"`
	FriendID uint `json:"friend_id" gorm:"index;uniqueIndex:idx_user_friend"`
}

// SuggestedUser is a find-friends entry with request state for the button.
type SuggestedUser struct {
	User              UserCompact `json:"user"`
	HasPendingRequest bool        `json:"has_pending_request"`
}
