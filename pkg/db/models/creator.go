package models

import "time"

// Creator is the campaign owner's public profile.
type Creator struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	AvatarURL       string    `gorm:"column:avatar_url"`
	Bio             string    `gorm:"column:bio"`
	Location        string    `gorm:"column:location"`
	ProjectsCreated int       `gorm:"column:projects_created;not null;default:1"`
	ProjectsBacked  int       `gorm:"column:projects_backed;not null;default:0"`
	PageContent     string    `gorm:"column:page_content"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
