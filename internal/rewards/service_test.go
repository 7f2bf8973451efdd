package rewards

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/internal/stats"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

type fakeRepository struct {
	rewards  map[uuid.UUID]*models.Reward
	created  []*models.Reward
	deleted  []uuid.UUID
	listErr  error
	ordering []uuid.UUID
}

func newFakeRepo(seed ...*models.Reward) *fakeRepository {
	repo := &fakeRepository{rewards: map[uuid.UUID]*models.Reward{}}
	for _, reward := range seed {
		repo.rewards[reward.ID] = reward
	}
	return repo
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, reward *models.Reward) error {
	f.rewards[reward.ID] = reward
	f.created = append(f.created, reward)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	return f.rewards[id], nil
}

func (f *fakeRepository) ListByCampaign(ctx context.Context, campaignID string, visibleOnly bool) ([]models.Reward, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Reward
	for _, reward := range f.rewards {
		if visibleOnly && !reward.IsVisible {
			continue
		}
		out = append(out, *reward)
	}
	return out, nil
}

func (f *fakeRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if _, ok := f.rewards[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.rewards[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rewards, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepository) IncrementBackers(ctx context.Context, rewardID uuid.UUID, delta int) error {
	return nil
}

func (f *fakeRepository) SetBackerCounts(ctx context.Context, campaignID string, counts map[uuid.UUID]int64) error {
	return nil
}

func (f *fakeRepository) SetSortOrders(ctx context.Context, campaignID string, ordered []uuid.UUID) error {
	f.ordering = ordered
	return nil
}

type fakeDeleter struct {
	calls []uuid.UUID
}

func (f *fakeDeleter) DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error) {
	f.calls = append(f.calls, rewardID)
	return 3, nil
}

type fakeRecomputer struct {
	totals int
	counts int
}

func (f *fakeRecomputer) RecomputeCampaignTotals(ctx context.Context, campaignID string) (stats.Totals, error) {
	f.totals++
	return stats.Totals{}, nil
}

func (f *fakeRecomputer) RecomputeRewardCounts(ctx context.Context, campaignID string) error {
	f.counts++
	return nil
}

func newTestService(t *testing.T, repo Repository, deleter pledgeDeleter, recomputer statsRecomputer) *Service {
	t.Helper()
	svc, err := NewService(repo, deleter, recomputer,
		logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func variantRef(s string) *string { return &s }

func TestDuplicateZeroesCounters(t *testing.T) {
	source := &models.Reward{
		ID:           uuid.New(),
		CampaignID:   "dreamplay-one",
		Title:        "DreamPlay Bundle",
		Price:        decimal.RequireFromString("199"),
		BackersCount: 42,
		IsVisible:    true,
		SortOrder:    2,
	}
	repo := newFakeRepo(source)
	svc := newTestService(t, repo, &fakeDeleter{}, &fakeRecomputer{})

	clone, err := svc.Duplicate(context.Background(), source.ID)
	if err != nil {
		t.Fatalf("Duplicate error: %v", err)
	}
	if clone.ID == source.ID {
		t.Fatal("clone must get a fresh id")
	}
	if clone.Title != "Copy of DreamPlay Bundle" {
		t.Fatalf("unexpected clone title %q", clone.Title)
	}
	if clone.BackersCount != 0 {
		t.Fatalf("clone backer count must start at zero, got %d", clone.BackersCount)
	}
	if clone.IsVisible {
		t.Fatal("clone must start hidden")
	}
	if !clone.Price.Equal(source.Price) {
		t.Fatalf("clone price %s differs from source %s", clone.Price, source.Price)
	}
}

func TestDeleteCascadesThenRecomputes(t *testing.T) {
	reward := &models.Reward{ID: uuid.New(), CampaignID: "dreamplay-one", Title: "Doomed"}
	repo := newFakeRepo(reward)
	deleter := &fakeDeleter{}
	recomputer := &fakeRecomputer{}
	svc := newTestService(t, repo, deleter, recomputer)

	if err := svc.Delete(context.Background(), "dreamplay-one", reward.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(deleter.calls) != 1 || deleter.calls[0] != reward.ID {
		t.Fatalf("expected pledge cascade for %s, got %v", reward.ID, deleter.calls)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected the reward row to be deleted")
	}
	if recomputer.totals != 1 || recomputer.counts != 1 {
		t.Fatalf("expected both recomputations, got totals=%d counts=%d", recomputer.totals, recomputer.counts)
	}
}

func TestDeleteUnknownReward(t *testing.T) {
	svc := newTestService(t, newFakeRepo(), &fakeDeleter{}, &fakeRecomputer{})
	err := svc.Delete(context.Background(), "dreamplay-one", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMatchByTitleOrPrice(t *testing.T) {
	bundle := &models.Reward{ID: uuid.New(), Title: "DreamPlay Bundle", Price: decimal.RequireFromString("199")}
	keyboard := &models.Reward{ID: uuid.New(), Title: "Keyboard Only", Price: decimal.RequireFromString("149")}
	repo := newFakeRepo(bundle, keyboard)
	svc := newTestService(t, repo, &fakeDeleter{}, &fakeRecomputer{})
	ctx := context.Background()

	got, err := svc.MatchByTitleOrPrice(ctx, "dreamplay-one", "dreamplay bundle", decimal.Zero)
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got == nil || got.ID != bundle.ID {
		t.Fatalf("expected title match on bundle, got %+v", got)
	}

	// off-by-cents amount still attributes to the closest-priced tier
	got, err = svc.MatchByTitleOrPrice(ctx, "dreamplay-one", "mystery tier", decimal.RequireFromString("148.10"))
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got == nil || got.ID != keyboard.ID {
		t.Fatalf("expected price match on keyboard, got %+v", got)
	}

	got, err = svc.MatchByTitleOrPrice(ctx, "dreamplay-one", "mystery tier", decimal.RequireFromString("500"))
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestMatchByVariant(t *testing.T) {
	simple := &models.Reward{ID: uuid.New(), Title: "Simple", ShopifyVariantID: variantRef("111")}
	mapped := &models.Reward{
		ID:               uuid.New(),
		Title:            "Mapped",
		ShopifyVariantID: variantRef(`{"m_black":"222","default":"333"}`),
	}
	unmapped := &models.Reward{ID: uuid.New(), Title: "Unmapped"}
	repo := newFakeRepo(simple, mapped, unmapped)
	svc := newTestService(t, repo, &fakeDeleter{}, &fakeRecomputer{})
	ctx := context.Background()

	got, err := svc.MatchByVariant(ctx, "dreamplay-one", "111", "")
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got == nil || got.ID != simple.ID {
		t.Fatalf("expected simple match, got %+v", got)
	}

	got, err = svc.MatchByVariant(ctx, "dreamplay-one", "222", "m_black")
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got == nil || got.ID != mapped.ID {
		t.Fatalf("expected option-map match, got %+v", got)
	}

	got, err = svc.MatchByVariant(ctx, "dreamplay-one", "333", "xl_white")
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got == nil || got.ID != mapped.ID {
		t.Fatalf("expected default fallback match, got %+v", got)
	}

	got, err = svc.MatchByVariant(ctx, "dreamplay-one", "999", "")
	if err != nil {
		t.Fatalf("match error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no match, got %+v", got)
	}
}
