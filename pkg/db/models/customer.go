package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer anchors identity for every pledge. Email carries a unique index;
// the resolver relies on it to close the find-or-create race.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
