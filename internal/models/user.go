// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Mural gallery.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `gorm:"size:100" json:"display_name"`
	Bio         string `gorm:"size:500" json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	// IsModerator grants approval/rejection rights and the privileged
	// delete bypass. It never grants metadata-edit rights on other
	// users' items.
	IsModerator bool `gorm:"default:false" json:"is_moderator"`

	PasswordResetToken  string     `gorm:"index" json:"-"`
	PasswordResetExpiry *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
