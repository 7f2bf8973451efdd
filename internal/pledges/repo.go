package pledges

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
)

// Repository manages persistence for the pledge ledger. Rows are append-only
// apart from reward reassignment and reward-scoped deletion.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pledge *models.Pledge) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]models.Pledge, error)
	UpdateReward(ctx context.Context, id uuid.UUID, rewardID *uuid.UUID) error
	DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error)
	HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error)
	// SumAndCountSucceeded aggregates the succeeded ledger rows for a campaign.
	SumAndCountSucceeded(ctx context.Context, campaignID string) (decimal.Decimal, int64, error)
	// CountSucceededByReward groups succeeded rows by reward, skipping
	// unassigned pledges.
	CountSucceededByReward(ctx context.Context, campaignID string) (map[uuid.UUID]int64, error)
	ListSucceededEmails(ctx context.Context, campaignID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pledge repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pledge *models.Pledge) error {
	if pledge.ID == uuid.Nil {
		pledge.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(pledge).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pledge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

func (r *repository) ListByCampaign(ctx context.Context, campaignID string) ([]models.Pledge, error) {
	var rows []models.Pledge
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Reward").
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateReward(ctx context.Context, id uuid.UUID, rewardID *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Where("id = ?", id).
		Update("reward_id", rewardID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("campaign_id = ? AND reward_id = ?", campaignID, rewardID).
		Delete(&models.Pledge{})
	return result.RowsAffected, result.Error
}

func (r *repository) HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Where("campaign_id = ? AND external_order_ref = ?", campaignID, ref).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) SumAndCountSucceeded(ctx context.Context, campaignID string) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Cnt   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").
		Where("campaign_id = ? AND status = ?", campaignID, enums.PledgeStatusSucceeded).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Cnt, nil
}

func (r *repository) CountSucceededByReward(ctx context.Context, campaignID string) (map[uuid.UUID]int64, error) {
	var rows []struct {
		RewardID uuid.UUID
		Cnt      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Select("reward_id, COUNT(*) AS cnt").
		Where("campaign_id = ? AND status = ? AND reward_id IS NOT NULL", campaignID, enums.PledgeStatusSucceeded).
		Group("reward_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.RewardID] = row.Cnt
	}
	return counts, nil
}

func (r *repository) ListSucceededEmails(ctx context.Context, campaignID string) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Distinct().
		Joins("JOIN customers ON customers.id = pledges.customer_id").
		Where("pledges.campaign_id = ? AND pledges.status = ?", campaignID, enums.PledgeStatusSucceeded).
		Pluck("customers.email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
