package faqs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// CreateInput carries a new FAQ entry.
type CreateInput struct {
	CampaignID string
	Question   string
	Answer     string
	Category   string
	SortOrder  int
}

// UpdateInput carries a partial FAQ update; nil fields stay untouched.
type UpdateInput struct {
	Question  *string
	Answer    *string
	Category  *string
	SortOrder *int
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "faqs: repository is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context, campaignID string) ([]models.FAQ, error) {
	faqs, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list faqs")
	}
	return faqs, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.FAQ, error) {
	if strings.TrimSpace(input.Question) == "" || strings.TrimSpace(input.Answer) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question and answer are required")
	}
	faq := &models.FAQ{
		ID:         uuid.New(),
		CampaignID: input.CampaignID,
		Question:   strings.TrimSpace(input.Question),
		Answer:     input.Answer,
		Category:   input.Category,
		SortOrder:  input.SortOrder,
	}
	if err := s.repo.Create(ctx, faq); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create faq")
	}
	return faq, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.FAQ, error) {
	fields := map[string]any{}
	if input.Question != nil {
		if strings.TrimSpace(*input.Question) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "question must not be blank")
		}
		fields["question"] = strings.TrimSpace(*input.Question)
	}
	if input.Answer != nil {
		fields["answer"] = *input.Answer
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.SortOrder != nil {
		fields["sort_order"] = *input.SortOrder
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update faq")
	}
	faq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load faq")
	}
	if faq == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
	}
	return faq, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete faq")
	}
	return nil
}
