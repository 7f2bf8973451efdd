package faqs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, faq *models.FAQ) error
	getFn    func(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	updateFn func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepository) WithTx(*gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, faq *models.FAQ) error {
	if f.createFn != nil {
		return f.createFn(ctx, faq)
	}
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) ListByCampaign(context.Context, string) ([]models.FAQ, error) {
	return nil, nil
}

func (f *fakeRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, fields)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestCreateRequiresQuestionAndAnswer(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{CampaignID: "dreamplay-one", Question: "  ", Answer: "yes"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	faq, err := svc.Create(context.Background(), CreateInput{
		CampaignID: "dreamplay-one",
		Question:   " When does it ship? ",
		Answer:     "Spring 2026.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if faq.Question != "When does it ship?" {
		t.Fatalf("expected trimmed question, got %q", faq.Question)
	}
	if faq.ID == uuid.Nil {
		t.Fatalf("expected id to be stamped")
	}
}

func TestUpdateMapsMissingRow(t *testing.T) {
	repo := &fakeRepository{
		updateFn: func(context.Context, uuid.UUID, map[string]any) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	question := "New question?"
	_, err = svc.Update(context.Background(), uuid.New(), UpdateInput{Question: &question})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePropagatesRepoFailure(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &fakeRepository{
		deleteFn: func(context.Context, uuid.UUID) error { return boom },
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
