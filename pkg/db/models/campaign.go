package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Campaign is the singleton aggregate this deployment serves. TotalPledged
// and TotalBackers are cached derivations over succeeded pledges; the pledge
// ledger stays authoritative and the recompute path can rebuild them.
type Campaign struct {
	ID                  string          `gorm:"column:id;primaryKey"`
	Title               string          `gorm:"column:title;not null"`
	Subtitle            string          `gorm:"column:subtitle"`
	Story               string          `gorm:"column:story"`
	Risks               string          `gorm:"column:risks"`
	Shipping            string          `gorm:"column:shipping"`
	TechnicalDetails    string          `gorm:"column:technical_details"`
	ManufacturerDetails string          `gorm:"column:manufacturer_details"`
	HeroImage           string          `gorm:"column:hero_image"`
	GalleryImages       pq.StringArray  `gorm:"column:gallery_images;type:text[]"`
	GoalAmount          decimal.Decimal `gorm:"column:goal_amount;type:numeric(12,2);not null"`
	TotalPledged        decimal.Decimal `gorm:"column:total_pledged;type:numeric(12,2);not null"`
	TotalBackers        int             `gorm:"column:total_backers;not null;default:0"`
	TotalSupply         int             `gorm:"column:total_supply;not null;default:100"`
	LovesCount          int             `gorm:"column:loves_count;not null;default:0"`
	EndsAt              time.Time       `gorm:"column:ends_at"`
	ShowAnnouncement    bool            `gorm:"column:show_announcement;not null;default:false"`
	ShowReservedAmount  bool            `gorm:"column:show_reserved_amount;not null;default:true"`
	ShowSoldOutPercent  bool            `gorm:"column:show_sold_out_percent;not null;default:true"`
	HiddenSections      pq.StringArray  `gorm:"column:hidden_sections;type:text[]"`
	FAQPageContent      *string         `gorm:"column:faq_page_content"`
	CreatorID           string          `gorm:"column:creator_id"`
	Creator             *Creator        `gorm:"foreignKey:CreatorID"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
