package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on an item. AuthorID and ItemID are fixed
// at creation; edits only touch Content and UpdatedAt.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"author"`
	ItemID    uint           `gorm:"not null;index" json:"item_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
