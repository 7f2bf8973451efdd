package models

import (
	"time"

	"github.com/google/uuid"
)

// Update is a community post on the campaign page.
type Update struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CampaignID string    `gorm:"column:campaign_id;not null;index"`
	Title      string    `gorm:"column:title;not null"`
	Content    string    `gorm:"column:content;not null"`
	Image      *string   `gorm:"column:image"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Comments []Comment `gorm:"foreignKey:UpdateID"`
}
