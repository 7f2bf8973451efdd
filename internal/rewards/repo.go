package rewards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
)

// Repository manages persistence for reward tiers and their cached counters.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reward *models.Reward) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reward, error)
	ListByCampaign(ctx context.Context, campaignID string, visibleOnly bool) ([]models.Reward, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementBackers(ctx context.Context, rewardID uuid.UUID, delta int) error
	// SetBackerCounts zeroes every count for the campaign and then writes
	// the provided values.
	SetBackerCounts(ctx context.Context, campaignID string, counts map[uuid.UUID]int64) error
	SetSortOrders(ctx context.Context, campaignID string, ordered []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reward repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reward *models.Reward) error {
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) ListByCampaign(ctx context.Context, campaignID string, visibleOnly bool) ([]models.Reward, error) {
	query := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("sort_order ASC, price ASC")
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	var rewards []models.Reward
	if err := query.Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Reward{}).
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

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Reward{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IncrementBackers(ctx context.Context, rewardID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Reward{}).
		Where("id = ?", rewardID).
		Update("backers_count", gorm.Expr("backers_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetBackerCounts(ctx context.Context, campaignID string, counts map[uuid.UUID]int64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Reward{}).
		Where("campaign_id = ?", campaignID).
		Update("backers_count", 0).Error
	if err != nil {
		return err
	}
	for rewardID, count := range counts {
		err := r.db.WithContext(ctx).
			Model(&models.Reward{}).
			Where("id = ?", rewardID).
			Update("backers_count", count).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) SetSortOrders(ctx context.Context, campaignID string, ordered []uuid.UUID) error {
	for position, rewardID := range ordered {
		err := r.db.WithContext(ctx).
			Model(&models.Reward{}).
			Where("id = ? AND campaign_id = ?", rewardID, campaignID).
			Update("sort_order", position).Error
		if err != nil {
			return err
		}
	}
	return nil
}
