package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
)

// Pledge is the append-only funding fact. RewardID is nullable: an unmatched
// pledge still counts toward revenue. CreatedAt is left to the caller when
// backfilling history, otherwise GORM stamps it.
//
// ExternalOrderRef holds the commerce platform's order marker (for example
// "Shopify Order #1042") so redelivered webhooks can be absorbed instead of
// double-counted.
type Pledge struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	CampaignID       string             `gorm:"column:campaign_id;not null;index"`
	RewardID         *uuid.UUID         `gorm:"column:reward_id;type:uuid;index"`
	CustomerID       uuid.UUID          `gorm:"column:customer_id;type:uuid;not null"`
	Amount           decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	Status           enums.PledgeStatus `gorm:"column:status;not null"`
	ShippingAddress  *string            `gorm:"column:shipping_address"`
	ShippingLocation *string            `gorm:"column:shipping_location"`
	ExternalOrderRef *string            `gorm:"column:external_order_ref;index"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Reward   *Reward   `gorm:"foreignKey:RewardID"`
}
