package campaigns

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
)

// Repository manages persistence for the campaign singleton and its creator.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id string) (*models.Campaign, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	UpdateCreatorFields(ctx context.Context, creatorID string, fields map[string]any) error
	// IncrementTotals atomically moves both cached counters in one update.
	IncrementTotals(ctx context.Context, id string, amount decimal.Decimal, backers int) error
	IncrementLoves(ctx context.Context, id string) error
	SetTotals(ctx context.Context, id string, totalPledged decimal.Decimal, totalBackers int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a campaign repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateCreatorFields(ctx context.Context, creatorID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Creator{}).
		Where("id = ?", creatorID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IncrementTotals(ctx context.Context, id string, amount decimal.Decimal, backers int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_pledged": gorm.Expr("total_pledged + ?", amount),
			"total_backers": gorm.Expr("total_backers + ?", backers),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IncrementLoves(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Update("loves_count", gorm.Expr("loves_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetTotals(ctx context.Context, id string, totalPledged decimal.Decimal, totalBackers int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_pledged": totalPledged,
			"total_backers": totalBackers,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
