package models

import "time"

// Like records that a user currently likes an item. At most one row may
// exist per (user, item) pair; the unique index is the storage-level guard
// against concurrent double-toggles.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_item" json:"user_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_like_user_item" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite records that a user currently has an item favorited. Same
// uniqueness contract as Like.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"user_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}
