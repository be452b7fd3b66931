package models

import (
	"time"

	"gorm.io/gorm"
)

// ItemStatus is the moderation state of an item.
type ItemStatus string

const (
	// ItemStatusPending is the initial state of every upload.
	ItemStatusPending ItemStatus = "pending"
	// ItemStatusApproved makes an item publicly visible.
	ItemStatusApproved ItemStatus = "approved"
	// ItemStatusRejected hides an item from public listings.
	ItemStatusRejected ItemStatus = "rejected"
)

// Item is an uploaded image that users engage with. LikeCount and
// FavoriteCount are denormalized and must equal the number of matching
// engagement rows; they are only ever adjusted inside the same transaction
// as the row change.
type Item struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:1000" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"`
	Tags        string `json:"tags"`

	ImageURL     string `gorm:"not null" json:"image_url"`
	ThumbnailURL string `gorm:"not null" json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int64  `json:"file_size"`

	UploaderID uint  `gorm:"not null;index" json:"uploader_id"`
	Uploader   User  `gorm:"foreignKey:UploaderID" json:"uploader"`
	Status     ItemStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// RejectionReason is non-empty only while Status is rejected;
	// approving clears it.
	RejectionReason string `json:"rejection_reason,omitempty"`
	ApprovedByID    *uint  `json:"approved_by_id,omitempty"`

	ViewCount     int `gorm:"not null;default:0" json:"view_count"`
	LikeCount     int `gorm:"not null;default:0" json:"like_count"`
	FavoriteCount int `gorm:"not null;default:0" json:"favorite_count"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->" json:"comment_count"`
	// Liked/Favorited indicate the requesting user's state (computed).
	Liked     bool `gorm:"->" json:"liked"`
	Favorited bool `gorm:"->" json:"favorited"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
