package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
)

// OrderEvent is the order webhook payload, trimmed to what ingestion needs.
type OrderEvent struct {
	ID              int64      `json:"id"`
	OrderNumber     int64      `json:"order_number"`
	Email           string     `json:"email"`
	Customer        Customer   `json:"customer"`
	ShippingAddress Address    `json:"shipping_address"`
	LineItems       []LineItem `json:"line_items"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Address struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

// LineItem keeps variant_id as json.Number: Shopify sends it numeric, test
// fixtures and replays sometimes quote it.
type LineItem struct {
	VariantID    json.Number `json:"variant_id"`
	Title        string      `json:"title"`
	VariantTitle string      `json:"variant_title"`
	Price        string      `json:"price"`
	Quantity     int         `json:"quantity"`
}

// Result reports how one order delivery was folded into the ledger.
type Result struct {
	Duplicate bool `json:"duplicate"`
	Recorded  int  `json:"recorded"`
	Unmatched int  `json:"unmatched"`
}

type customerResolver interface {
	Resolve(ctx context.Context, email, name string) (uuid.UUID, error)
}

type pledgeWriter interface {
	Record(ctx context.Context, input pledges.RecordInput) (uuid.UUID, error)
	HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error)
}

type variantMatcher interface {
	MatchByVariant(ctx context.Context, campaignID, variantID, optionKey string) (*models.Reward, error)
}

type deltaApplier interface {
	ApplyPledgeDelta(ctx context.Context, campaignID string, rewardID *uuid.UUID, amount decimal.Decimal) error
}

// eventGuard is the optional cross-instance duplicate check; nil-safe via
// the Guard wrapper.
type eventGuard interface {
	FirstDelivery(ctx context.Context, eventID string) bool
}

// Service turns order webhooks into ledger rows. Duplicate deliveries are
// absorbed twice over: a fast shared-store claim on the event id, then the
// order reference already present in the ledger.
type Service struct {
	campaignID string
	customers  customerResolver
	pledges    pledgeWriter
	rewards    variantMatcher
	stats      deltaApplier
	guard      eventGuard
	metrics    *metrics.IngestMetrics
	log        *logger.Logger
}

// NewService wires the webhook ingestor. guard may be nil when no shared
// store is configured.
func NewService(campaignID string, customers customerResolver, pledgeSvc pledgeWriter, rewardSvc variantMatcher, stats deltaApplier, guard eventGuard, m *metrics.IngestMetrics, log *logger.Logger) (*Service, error) {
	if campaignID == "" || customers == nil || pledgeSvc == nil || rewardSvc == nil || stats == nil || log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shopify: campaign id and all collaborators are required")
	}
	return &Service{
		campaignID: campaignID,
		customers:  customers,
		pledges:    pledgeSvc,
		rewards:    rewardSvc,
		stats:      stats,
		guard:      guard,
		metrics:    m,
		log:        log,
	}, nil
}

// HandleOrder ingests one order event. Every line item becomes a pledge;
// items whose variant matches no reward are recorded unassigned so revenue
// is never dropped, only unattributed.
func (s *Service) HandleOrder(ctx context.Context, event OrderEvent) (Result, error) {
	if strings.TrimSpace(event.Email) == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "order event has no email")
	}

	ref := fmt.Sprintf("Shopify Order #%d", event.OrderNumber)
	ctx = s.log.WithField(ctx, "order_ref", ref)

	if s.guard != nil && event.ID != 0 {
		if !s.guard.FirstDelivery(ctx, fmt.Sprintf("%d", event.ID)) {
			s.log.Info(ctx, "duplicate webhook delivery absorbed by event guard")
			return Result{Duplicate: true}, nil
		}
	}
	seen, err := s.pledges.HasExternalOrderRef(ctx, s.campaignID, ref)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check order reference")
	}
	if seen {
		s.log.Info(ctx, "order already in the ledger, delivery absorbed")
		return Result{Duplicate: true}, nil
	}

	customerID, err := s.customers.Resolve(ctx, event.Email, backerName(event))
	if err != nil {
		return Result{}, err
	}

	address := formatAddress(event.ShippingAddress)
	result := Result{}
	for _, item := range event.LineItems {
		amount, err := decimal.NewFromString(item.Price)
		if err != nil {
			s.log.Warn(s.log.WithField(ctx, "price", item.Price), "line item price unparseable, item skipped")
			continue
		}
		reward, err := s.rewards.MatchByVariant(ctx, s.campaignID, item.VariantID.String(), optionKey(item.VariantTitle))
		if err != nil {
			return result, err
		}
		var rewardID *uuid.UUID
		if reward != nil {
			rewardID = &reward.ID
		} else {
			result.Unmatched++
			s.metrics.IncUnmatchedLineItem()
			s.log.Warn(s.log.WithField(ctx, "variant_id", item.VariantID.String()),
				"no reward matches the line item variant, recording unassigned")
		}

		input := pledges.RecordInput{
			CampaignID:       s.campaignID,
			RewardID:         rewardID,
			CustomerID:       customerID,
			Amount:           amount,
			ExternalOrderRef: &ref,
		}
		if address != "" {
			input.ShippingAddress = &address
		}
		if event.ShippingAddress.Country != "" {
			input.ShippingLocation = &event.ShippingAddress.Country
		}
		if _, err := s.pledges.Record(ctx, input); err != nil {
			return result, err
		}
		result.Recorded++
		s.metrics.IncPledge("webhook")
		if err := s.stats.ApplyPledgeDelta(ctx, s.campaignID, rewardID, amount); err != nil {
			// Ledger row exists; the counters catch up on recompute.
			s.log.Error(ctx, "webhook delta failed, counters drift until recompute", err)
		}
	}
	return result, nil
}

// backerName picks a display name in the order the payload is usually
// populated: shipping name, then customer first name, then a placeholder.
func backerName(event OrderEvent) string {
	if name := strings.TrimSpace(event.ShippingAddress.Name); name != "" {
		return name
	}
	name := strings.TrimSpace(strings.TrimSpace(event.Customer.FirstName) + " " + strings.TrimSpace(event.Customer.LastName))
	if name != "" {
		return name
	}
	return "Backer"
}

func formatAddress(addr Address) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{addr.Address1, addr.City, addr.Zip, addr.Country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// optionKey turns a variant title like "M / Black" into the "m_black" key
// option-map references use.
func optionKey(variantTitle string) string {
	trimmed := strings.ToLower(strings.TrimSpace(variantTitle))
	if trimmed == "" {
		return ""
	}
	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '/' || r == ' '
	})
	return strings.Join(fields, "_")
}
