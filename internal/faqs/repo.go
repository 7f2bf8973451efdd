package faqs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, faq *models.FAQ) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]models.FAQ, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, faq *models.FAQ) error {
	if faq.ID == uuid.Nil {
		faq.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	var faq models.FAQ
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&faq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *repository) ListByCampaign(ctx context.Context, campaignID string) ([]models.FAQ, error) {
	var faqs []models.FAQ
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("sort_order ASC, created_at ASC").
		Find(&faqs).Error
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.FAQ{}).
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
		Delete(&models.FAQ{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
