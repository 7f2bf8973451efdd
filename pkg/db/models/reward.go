package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
)

// Reward is a pledge tier. BackersCount caches the number of succeeded
// pledges referencing this reward; it is not authoritative.
//
// ShopifyVariantID is free text: either a bare variant id or a JSON object
// mapping "<size>_<color>" option keys to variant ids. types.ParseVariantRef
// is the only place that interprets it.
type Reward struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CampaignID        string           `gorm:"column:campaign_id;not null;index"`
	Title             string           `gorm:"column:title;not null"`
	Description       string           `gorm:"column:description"`
	Price             decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice     *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	ItemsIncluded     pq.StringArray   `gorm:"column:items_included;type:text[]"`
	EstimatedDelivery string           `gorm:"column:estimated_delivery"`
	ShipsTo           pq.StringArray   `gorm:"column:ships_to;type:text[]"`
	BackersCount      int              `gorm:"column:backers_count;not null;default:0"`
	LimitQuantity     *int             `gorm:"column:limit_quantity"`
	IsSoldOut         bool             `gorm:"column:is_sold_out;not null;default:false"`
	ImageURL          *string          `gorm:"column:image_url"`
	IsFeatured        bool             `gorm:"column:is_featured;not null;default:false"`
	BadgeType         enums.BadgeType  `gorm:"column:badge_type;not null;default:none"`
	CheckoutURL       *string          `gorm:"column:checkout_url"`
	ShopifyVariantID  *string          `gorm:"column:shopify_variant_id"`
	RewardType        enums.RewardType `gorm:"column:reward_type;not null;default:bundle"`
	// No gorm-side default here: GORM skips zero-valued fields that carry
	// one, which would flip hidden drafts to visible on insert. The
	// service picks the default and the column is always written.
	IsVisible         bool             `gorm:"column:is_visible;not null"`
	SortOrder         int              `gorm:"column:sort_order;not null;default:0"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
