package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

type fakeCustomers struct {
	lastName string
	id       uuid.UUID
}

func (f *fakeCustomers) Resolve(ctx context.Context, email, name string) (uuid.UUID, error) {
	f.lastName = name
	if f.id == uuid.Nil {
		f.id = uuid.New()
	}
	return f.id, nil
}

type fakePledges struct {
	recorded []pledges.RecordInput
	seenRefs map[string]bool
}

func (f *fakePledges) Record(ctx context.Context, input pledges.RecordInput) (uuid.UUID, error) {
	f.recorded = append(f.recorded, input)
	return uuid.New(), nil
}

func (f *fakePledges) HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error) {
	return f.seenRefs[ref], nil
}

type fakeRewards struct {
	byVariant map[string]*models.Reward
}

func (f *fakeRewards) MatchByVariant(ctx context.Context, campaignID, variantID, key string) (*models.Reward, error) {
	if reward, ok := f.byVariant[variantID+"|"+key]; ok {
		return reward, nil
	}
	return f.byVariant[variantID], nil
}

type fakeStats struct {
	deltas []decimal.Decimal
}

func (f *fakeStats) ApplyPledgeDelta(ctx context.Context, campaignID string, rewardID *uuid.UUID, amount decimal.Decimal) error {
	f.deltas = append(f.deltas, amount)
	return nil
}

type fakeGuard struct {
	duplicate bool
	claims    []string
}

func (f *fakeGuard) FirstDelivery(ctx context.Context, eventID string) bool {
	f.claims = append(f.claims, eventID)
	return !f.duplicate
}

func newTestService(t *testing.T, pledgeSvc *fakePledges, rewardSvc *fakeRewards, stats *fakeStats, guard eventGuard) (*Service, *fakeCustomers) {
	t.Helper()
	customers := &fakeCustomers{}
	if rewardSvc == nil {
		rewardSvc = &fakeRewards{}
	}
	svc, err := NewService("dreamplay-one", customers, pledgeSvc, rewardSvc, stats, guard,
		nil, logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard}))
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc, customers
}

func orderEvent(orderNumber int64, items ...LineItem) OrderEvent {
	return OrderEvent{
		ID:          orderNumber * 1000,
		OrderNumber: orderNumber,
		Email:       "backer@example.com",
		LineItems:   items,
	}
}

func TestHandleOrderRecordsMatchedItems(t *testing.T) {
	bundle := &models.Reward{ID: uuid.New(), Title: "Bundle"}
	rewardSvc := &fakeRewards{byVariant: map[string]*models.Reward{"111": bundle}}
	pledgeSvc := &fakePledges{}
	stats := &fakeStats{}
	svc, _ := newTestService(t, pledgeSvc, rewardSvc, stats, nil)

	event := orderEvent(1042, LineItem{VariantID: "111", Price: "199.00"})
	event.ShippingAddress = Address{Name: "Ada L", Address1: "1 Main St", City: "Toronto", Country: "Canada"}

	result, err := svc.HandleOrder(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleOrder error: %v", err)
	}
	if result.Recorded != 1 || result.Unmatched != 0 || result.Duplicate {
		t.Fatalf("unexpected result %+v", result)
	}
	got := pledgeSvc.recorded[0]
	if got.RewardID == nil || *got.RewardID != bundle.ID {
		t.Fatal("expected the bundle reward attributed")
	}
	if got.ExternalOrderRef == nil || *got.ExternalOrderRef != "Shopify Order #1042" {
		t.Fatalf("unexpected order ref %v", got.ExternalOrderRef)
	}
	if got.ShippingLocation == nil || *got.ShippingLocation != "Canada" {
		t.Fatalf("unexpected location %v", got.ShippingLocation)
	}
	if len(stats.deltas) != 1 || !stats.deltas[0].Equal(decimal.RequireFromString("199")) {
		t.Fatalf("unexpected deltas %v", stats.deltas)
	}
}

func TestHandleOrderUnmatchedItemRecordedUnassigned(t *testing.T) {
	pledgeSvc := &fakePledges{}
	stats := &fakeStats{}
	svc, _ := newTestService(t, pledgeSvc, nil, stats, nil)

	result, err := svc.HandleOrder(context.Background(),
		orderEvent(7, LineItem{VariantID: "999", Price: "49.99"}))
	if err != nil {
		t.Fatalf("HandleOrder error: %v", err)
	}
	if result.Recorded != 1 || result.Unmatched != 1 {
		t.Fatalf("unmatched item must still be recorded: %+v", result)
	}
	if pledgeSvc.recorded[0].RewardID != nil {
		t.Fatal("unmatched item must stay unassigned")
	}
	if len(stats.deltas) != 1 {
		t.Fatal("unassigned revenue still counts toward the campaign totals")
	}
}

func TestHandleOrderDuplicateByLedgerRef(t *testing.T) {
	pledgeSvc := &fakePledges{seenRefs: map[string]bool{"Shopify Order #1042": true}}
	svc, _ := newTestService(t, pledgeSvc, nil, &fakeStats{}, nil)

	result, err := svc.HandleOrder(context.Background(),
		orderEvent(1042, LineItem{VariantID: "111", Price: "199.00"}))
	if err != nil {
		t.Fatalf("HandleOrder error: %v", err)
	}
	if !result.Duplicate || result.Recorded != 0 {
		t.Fatalf("redelivery must be absorbed: %+v", result)
	}
	if len(pledgeSvc.recorded) != 0 {
		t.Fatal("no rows may be written for a duplicate order")
	}
}

func TestHandleOrderDuplicateByGuard(t *testing.T) {
	pledgeSvc := &fakePledges{}
	guard := &fakeGuard{duplicate: true}
	svc, _ := newTestService(t, pledgeSvc, nil, &fakeStats{}, guard)

	result, err := svc.HandleOrder(context.Background(),
		orderEvent(8, LineItem{VariantID: "111", Price: "10.00"}))
	if err != nil {
		t.Fatalf("HandleOrder error: %v", err)
	}
	if !result.Duplicate || len(pledgeSvc.recorded) != 0 {
		t.Fatalf("guard hit must absorb the delivery: %+v", result)
	}
	if len(guard.claims) != 1 || guard.claims[0] != "8000" {
		t.Fatalf("expected a claim on the event id, got %v", guard.claims)
	}
}

func TestHandleOrderVariantOptionKey(t *testing.T) {
	mapped := &models.Reward{ID: uuid.New(), Title: "Mapped"}
	rewardSvc := &fakeRewards{byVariant: map[string]*models.Reward{"222|m_black": mapped}}
	pledgeSvc := &fakePledges{}
	svc, _ := newTestService(t, pledgeSvc, rewardSvc, &fakeStats{}, nil)

	result, err := svc.HandleOrder(context.Background(),
		orderEvent(9, LineItem{VariantID: "222", VariantTitle: "M / Black", Price: "149.00"}))
	if err != nil {
		t.Fatalf("HandleOrder error: %v", err)
	}
	if result.Unmatched != 0 {
		t.Fatalf("variant title must resolve the option key: %+v", result)
	}
	if *pledgeSvc.recorded[0].RewardID != mapped.ID {
		t.Fatal("wrong reward attributed")
	}
}

func TestBackerNameFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		event OrderEvent
		want  string
	}{
		{"shipping name wins", OrderEvent{
			ShippingAddress: Address{Name: "Ada L"},
			Customer:        Customer{FirstName: "Grace"},
		}, "Ada L"},
		{"customer name next", OrderEvent{Customer: Customer{FirstName: "Grace", LastName: "H"}}, "Grace H"},
		{"placeholder last", OrderEvent{}, "Backer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := backerName(tc.event); got != tc.want {
				t.Fatalf("backerName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "shpss_test_secret"
	body := []byte(`{"order_number":1042}`)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, body, valid) {
		t.Fatal("valid signature rejected")
	}
	if VerifySignature(secret, body, strings.Repeat("A", len(valid))) {
		t.Fatal("forged signature accepted")
	}
	if VerifySignature(secret, []byte(`{"order_number":1}`), valid) {
		t.Fatal("signature must bind to the exact body")
	}
	if !VerifySignature("", body, "") {
		t.Fatal("empty secret must skip verification")
	}
}

func TestOrderEventDecodesQuotedVariantIDs(t *testing.T) {
	raw := `{"order_number":5,"email":"x@example.com","line_items":[{"variant_id":"987","price":"10.00"},{"variant_id":654,"price":"20.00"}]}`
	var event OrderEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if event.LineItems[0].VariantID.String() != "987" || event.LineItems[1].VariantID.String() != "654" {
		t.Fatalf("unexpected variant ids %+v", event.LineItems)
	}
}

func TestOptionKey(t *testing.T) {
	cases := map[string]string{
		"M / Black":  "m_black",
		"XL / White": "xl_white",
		"Default":    "default",
		"":           "",
	}
	for input, want := range cases {
		if got := optionKey(input); got != want {
			t.Fatalf("optionKey(%q) = %q, want %q", input, got, want)
		}
	}
}
