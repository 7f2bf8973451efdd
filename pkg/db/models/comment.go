package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a public reply on a community update. Email is kept so the feed
// can badge commenters who have a succeeded pledge.
type Comment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UpdateID  uuid.UUID `gorm:"column:update_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
