package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/internal/rewards"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

type fakeCustomers struct {
	resolved map[string]uuid.UUID
}

func (f *fakeCustomers) Resolve(ctx context.Context, email, name string) (uuid.UUID, error) {
	if f.resolved == nil {
		f.resolved = map[string]uuid.UUID{}
	}
	if id, ok := f.resolved[email]; ok {
		return id, nil
	}
	id := uuid.New()
	f.resolved[email] = id
	return id, nil
}

type fakePledges struct {
	recorded []pledges.RecordInput
	failOn   func(input pledges.RecordInput) error
}

func (f *fakePledges) Record(ctx context.Context, input pledges.RecordInput) (uuid.UUID, error) {
	if f.failOn != nil {
		if err := f.failOn(input); err != nil {
			return uuid.Nil, err
		}
	}
	f.recorded = append(f.recorded, input)
	return uuid.New(), nil
}

type fakeMatcher struct {
	rewards map[string]*models.Reward
}

func (f *fakeMatcher) MatchByTitleOrPrice(ctx context.Context, campaignID, title string, amount decimal.Decimal) (*models.Reward, error) {
	if reward, ok := f.rewards[strings.ToLower(title)]; ok {
		return reward, nil
	}
	for _, reward := range f.rewards {
		if reward.Price.Sub(amount).Abs().LessThanOrEqual(decimal.NewFromInt(1)) {
			return reward, nil
		}
	}
	return nil, nil
}

type fakeCreator struct {
	created []rewards.CreateInput
}

func (f *fakeCreator) Create(ctx context.Context, input rewards.CreateInput) (*models.Reward, error) {
	f.created = append(f.created, input)
	return &models.Reward{ID: uuid.New(), Title: input.Title, Price: input.Price}, nil
}

type fakeStats struct {
	deltas int
}

func (f *fakeStats) ApplyPledgeDelta(ctx context.Context, campaignID string, rewardID *uuid.UUID, amount decimal.Decimal) error {
	f.deltas++
	return nil
}

func newTestService(t *testing.T, pledgeSvc *fakePledges, matcher *fakeMatcher, creator *fakeCreator, stats *fakeStats) *Service {
	t.Helper()
	if matcher == nil {
		matcher = &fakeMatcher{}
	}
	svc, err := NewService("dreamplay-one", &fakeCustomers{}, pledgeSvc, matcher, creator, stats,
		nil, logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestImportPledgesPartialFailureIsolation(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Email,Name,Amount\n")
	for i := 1; i <= 10; i++ {
		amount := fmt.Sprintf("%d", i*10)
		if i == 5 {
			amount = "not-a-number"
		}
		sb.WriteString(fmt.Sprintf("backer%d@example.com,Backer %d,%s\n", i, i, amount))
	}

	pledgeSvc := &fakePledges{}
	stats := &fakeStats{}
	svc := newTestService(t, pledgeSvc, nil, &fakeCreator{}, stats)

	result, err := svc.ImportPledges(context.Background(), strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 9 {
		t.Fatalf("expected 9 imports, got %d", result.Imported)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 5:") {
		t.Fatalf("expected exactly one row-5 error, got %v", result.Errors)
	}
	if len(pledgeSvc.recorded) != 9 || stats.deltas != 9 {
		t.Fatalf("expected every good row recorded with its delta, got %d/%d",
			len(pledgeSvc.recorded), stats.deltas)
	}
}

func TestImportPledgesAmountSanitization(t *testing.T) {
	input := "Email,Subtotal\nada@example.com,\"$1,234.50\"\n"
	pledgeSvc := &fakePledges{}
	svc := newTestService(t, pledgeSvc, nil, &fakeCreator{}, &fakeStats{})

	result, err := svc.ImportPledges(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected one import, got %+v", result)
	}
	if !pledgeSvc.recorded[0].Amount.Equal(decimal.RequireFromString("1234.50")) {
		t.Fatalf("unexpected amount %s", pledgeSvc.recorded[0].Amount)
	}
}

func TestImportPledgesRewardMatching(t *testing.T) {
	bundle := &models.Reward{ID: uuid.New(), Title: "Bundle", Price: decimal.RequireFromString("199")}
	matcher := &fakeMatcher{rewards: map[string]*models.Reward{"bundle": bundle}}
	pledgeSvc := &fakePledges{}
	svc := newTestService(t, pledgeSvc, matcher, &fakeCreator{}, &fakeStats{})

	input := "Email,Amount,Reward\n" +
		"a@example.com,199,Bundle\n" + // title match
		"b@example.com,198.50,Mystery\n" + // price match
		"c@example.com,199,\n" // empty reward cell, no match attempted
	result, err := svc.ImportPledges(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 3 {
		t.Fatalf("expected 3 imports, got %+v", result)
	}
	if pledgeSvc.recorded[0].RewardID == nil || *pledgeSvc.recorded[0].RewardID != bundle.ID {
		t.Fatal("expected a title match on row 1")
	}
	if pledgeSvc.recorded[1].RewardID == nil || *pledgeSvc.recorded[1].RewardID != bundle.ID {
		t.Fatal("expected a price match on row 2")
	}
	if pledgeSvc.recorded[2].RewardID != nil {
		t.Fatal("blank reward cell must stay unassigned")
	}
}

func TestImportPledgesDates(t *testing.T) {
	input := "Email,Amount,Created at\n" +
		"a@example.com,10,2024-11-03\n" +
		"b@example.com,10,\n" +
		"c@example.com,10,never\n"
	pledgeSvc := &fakePledges{}
	svc := newTestService(t, pledgeSvc, nil, &fakeCreator{}, &fakeStats{})

	result, err := svc.ImportPledges(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imports, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 3:") {
		t.Fatalf("expected a row-3 date error, got %v", result.Errors)
	}
	want := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)
	if !pledgeSvc.recorded[0].CreatedAt.Equal(want) {
		t.Fatalf("unexpected backfilled date %s", pledgeSvc.recorded[0].CreatedAt)
	}
	if !pledgeSvc.recorded[1].CreatedAt.IsZero() {
		t.Fatal("empty date must leave created_at to the ledger")
	}
}

func TestImportPledgesLedgerFailureIsRowError(t *testing.T) {
	pledgeSvc := &fakePledges{
		failOn: func(input pledges.RecordInput) error {
			if strings.HasPrefix(input.Amount.String(), "66") {
				return fmt.Errorf("connection reset")
			}
			return nil
		},
	}
	svc := newTestService(t, pledgeSvc, nil, &fakeCreator{}, &fakeStats{})

	input := "Email,Amount\na@example.com,10\nb@example.com,66\nc@example.com,20\n"
	result, err := svc.ImportPledges(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 2 || len(result.Errors) != 1 {
		t.Fatalf("one ledger failure must not stop the batch: %+v", result)
	}
	if !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Fatalf("expected the failure keyed to row 2, got %v", result.Errors)
	}
}

func TestImportPledgesFuzzyHeaders(t *testing.T) {
	input := "Billing Email,Full Name,Subtotal,Billing Country,Shipping Address\n" +
		"ada@example.com,Ada,\"$99.00\",Canada,1 Main St\n"
	pledgeSvc := &fakePledges{}
	svc := newTestService(t, pledgeSvc, nil, &fakeCreator{}, &fakeStats{})

	result, err := svc.ImportPledges(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportPledges error: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected one import, got %+v", result)
	}
	got := pledgeSvc.recorded[0]
	if got.ShippingLocation == nil || *got.ShippingLocation != "Canada" {
		t.Fatalf("country column must map to location, got %+v", got.ShippingLocation)
	}
	if got.ShippingAddress == nil || *got.ShippingAddress != "1 Main St" {
		t.Fatalf("address column must map, got %+v", got.ShippingAddress)
	}
}

func TestImportRewards(t *testing.T) {
	input := "Title,Price,Description,Items,Delivery,Quantity\n" +
		"Bundle,\"$199.00\",The works,Keyboard; Stand; Case,March 2026,500\n" +
		"tiny\n" +
		"Keyboard Only,149,Just the board,,April 2026,\n"
	creator := &fakeCreator{}
	svc := newTestService(t, &fakePledges{}, nil, creator, &fakeStats{})

	created, err := svc.ImportRewards(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportRewards error: %v", err)
	}
	if created != 2 || len(creator.created) != 2 {
		t.Fatalf("expected 2 rewards (short row skipped), got %d", created)
	}
	first := creator.created[0]
	if first.Title != "Bundle" || !first.Price.Equal(decimal.RequireFromString("199")) {
		t.Fatalf("unexpected first reward %+v", first)
	}
	if len(first.ItemsIncluded) != 3 || first.ItemsIncluded[1] != "Stand" {
		t.Fatalf("items must split on semicolons, got %v", first.ItemsIncluded)
	}
	if first.LimitQuantity == nil || *first.LimitQuantity != 500 {
		t.Fatalf("unexpected quantity %+v", first.LimitQuantity)
	}
	if creator.created[1].LimitQuantity != nil {
		t.Fatal("blank quantity must stay unlimited")
	}
}

func TestImportRewardsNoValidRows(t *testing.T) {
	svc := newTestService(t, &fakePledges{}, nil, &fakeCreator{}, &fakeStats{})
	_, err := svc.ImportRewards(context.Background(), strings.NewReader("Title,Price\n"))
	if err == nil || !strings.Contains(err.Error(), "no valid rows") {
		t.Fatalf("expected a no-valid-rows error, got %v", err)
	}
}
