package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is the account plus every editable profile field the profile page
// shows (PostgreSQL).
type User struct {
	gorm.Model         `json:"-"`
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Username           string    `json:"username" gorm:"uniqueIndex"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password           string    `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Bio                string    `json:"bio"`
	ProfilePhotoURL    string    `json:"profile_photo_url"`
	CoverPhotoURL      string    `json:"cover_photo_url"`
	DateOfBirth        string    `json:"date_of_birth"` // YYYY-MM-DD, assembled by the signup form
	Gender             string    `json:"gender" gorm:"type:varchar(10)"`
	Location           string    `json:"location"`
	Hometown           string    `json:"hometown"`
	Work               string    `json:"work"`
	Education          string    `json:"education"`
	Website            string    `json:"website"`
	RelationshipStatus string    `json:"relationship_status" gorm:"type:varchar(10)"`
	LastActive         time.Time `json:"last_active"`
}

// Name returns the display name shown on post cards and the navbar.
func (u *User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// AvatarURL returns the profile photo or the default avatar.
func (u *User) AvatarURL() string {
	if u.ProfilePhotoURL != "" {
		return u.ProfilePhotoURL
	}
	return "/media/defaults/default-avatar.jpg"
}

// CoverURL returns the cover photo or the default cover.
func (u *User) CoverURL() string {
	if u.CoverPhotoURL != "" {
		return u.CoverPhotoURL
	}
	return "/media/defaults/default-cover.jpg"
}

// IsOnline reports whether the user was active within the last two minutes.
func (u *User) IsOnline() bool {
	if u.LastActive.IsZero() {
		return false
	}
	return time.Since(u.LastActive) < 2*time.Minute
}

// LastActiveDisplay renders the presence label shown in the messaging panel.
func (u *User) LastActiveDisplay() string {
	if u.IsOnline() {
		return "Active now"
	}
	if u.LastActive.IsZero() {
		return "Offline"
	}
	diff := time.Since(u.LastActive)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("Active %dd ago", int(diff.Hours())/24)
	case diff >= time.Hour:
		return fmt.Sprintf("Active %dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("Active %dm ago", int(diff.Minutes()))
	default:
		return "Active just now"
	}
}

// UserCompact is the author payload embedded in posts, comments and messages.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact converts a User to its compact representation.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name(),
		AvatarURL: u.AvatarURL(),
	}
}

// RegisterRequest defines the multipart form fields the signup page submits.
type RegisterRequest struct {
	FirstName   string `form:"first_name" validate:"required"`
	LastName    string `form:"last_name" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Username    string `form:"username" validate:"required,min=2,max=50"`
	Password    string `form:"password" validate:"required"`
	DateOfBirth string `form:"date_of_birth" validate:"required"`
	Gender      string `form:"gender" validate:"required,oneof=male female"`
}

// LoginRequest defines the JSON body the login page submits.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the editable profile fields. Empty strings are
// written back as-is: clearing a field in the edit form clears it here too.
type UpdateProfileRequest struct {
	Bio                string `json:"bio" form:"bio"`
	Work               string `json:"work" form:"work"`
	Education          string `json:"education" form:"education"`
	Location           string `json:"location" form:"location"`
	Hometown           string `json:"hometown" form:"hometown"`
	Website            string `json:"website" form:"website" validate:"omitempty,url"`
	Gender             string `json:"gender" form:"gender" validate:"omitempty,oneof=male female"`
	RelationshipStatus string `json:"relationship_status" form:"relationship_status" validate:"omitempty,oneof=single married"`
}

// TokenPair is the session marker the client keeps in local storage.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
