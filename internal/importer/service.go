package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/internal/rewards"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
)

type customerResolver interface {
	Resolve(ctx context.Context, email, name string) (uuid.UUID, error)
}

type pledgeRecorder interface {
	Record(ctx context.Context, input pledges.RecordInput) (uuid.UUID, error)
}

type rewardMatcher interface {
	MatchByTitleOrPrice(ctx context.Context, campaignID, title string, amount decimal.Decimal) (*models.Reward, error)
}

type rewardCreator interface {
	Create(ctx context.Context, input rewards.CreateInput) (*models.Reward, error)
}

type deltaApplier interface {
	ApplyPledgeDelta(ctx context.Context, campaignID string, rewardID *uuid.UUID, amount decimal.Decimal) error
}

// Result reports a pledge import: how many rows landed in the ledger and
// what went wrong with the rest, keyed by row number.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// Service is the bulk-import pipeline. One bad row never aborts the batch;
// it gets an error entry and the batch moves on.
type Service struct {
	campaignID string
	customers  customerResolver
	pledges    pledgeRecorder
	matcher    rewardMatcher
	creator    rewardCreator
	stats      deltaApplier
	metrics    *metrics.IngestMetrics
	log        *logger.Logger
}

// NewService wires the import pipeline for the configured campaign.
func NewService(campaignID string, customers customerResolver, pledgeSvc pledgeRecorder, matcher rewardMatcher, creator rewardCreator, stats deltaApplier, m *metrics.IngestMetrics, log *logger.Logger) (*Service, error) {
	if campaignID == "" || customers == nil || pledgeSvc == nil || matcher == nil || creator == nil || stats == nil || log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "importer: campaign id and all collaborators are required")
	}
	return &Service{
		campaignID: campaignID,
		customers:  customers,
		pledges:    pledgeSvc,
		matcher:    matcher,
		creator:    creator,
		stats:      stats,
		metrics:    m,
		log:        log,
	}, nil
}

// ImportPledges reads a backer spreadsheet and appends one ledger row per
// usable line. Returns only for unreadable input; row failures land in the
// result's error list as "Row N: ...".
func (s *Service) ImportPledges(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := parsePledgeCSV(r)
	if err != nil {
		return Result{}, err
	}
	result := Result{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 1
		if err := s.importRow(ctx, row); err != nil {
			message := fmt.Sprintf("Row %d: %s", rowNum, rowErrorMessage(err))
			result.Errors = append(result.Errors, message)
			s.metrics.IncRowError(rowErrorReason(err))
			continue
		}
		result.Imported++
		s.metrics.IncPledge("import")
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"imported": result.Imported,
		"failed":   len(result.Errors),
	}), "pledge import finished")
	return result, nil
}

func (s *Service) importRow(ctx context.Context, row RawRow) error {
	amount, amountErr := cleanAmount(row.Amount)
	if row.Email == "" || amountErr != nil {
		return errRowSkipped
	}
	createdAt, err := parseDate(row.Date)
	if err != nil {
		return err
	}

	var rewardID *uuid.UUID
	if row.Reward != "" {
		reward, err := s.matcher.MatchByTitleOrPrice(ctx, s.campaignID, row.Reward, amount)
		if err != nil {
			return err
		}
		if reward != nil {
			rewardID = &reward.ID
		}
	}

	customerID, err := s.customers.Resolve(ctx, row.Email, row.Name)
	if err != nil {
		return err
	}

	input := pledges.RecordInput{
		CampaignID: s.campaignID,
		RewardID:   rewardID,
		CustomerID: customerID,
		Amount:     amount,
		CreatedAt:  createdAt,
	}
	if row.Address != "" {
		input.ShippingAddress = &row.Address
	}
	if row.Location != "" {
		input.ShippingLocation = &row.Location
	}
	if _, err := s.pledges.Record(ctx, input); err != nil {
		return err
	}
	if err := s.stats.ApplyPledgeDelta(ctx, s.campaignID, rewardID, amount); err != nil {
		// The row is in the ledger; a recompute repairs the counters.
		s.log.Error(ctx, "import delta failed, counters drift until recompute", err)
	}
	return nil
}

// rewardColumnCount is the minimum usable width of a reward-import row:
// title, price, description.
const rewardColumnCount = 3

// ImportRewards reads the fixed-column reward sheet
// (title, price, description, items, delivery, quantity). The items cell
// uses ";" between entries so it survives CSV quoting.
func (s *Service) ImportRewards(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable CSV input")
	}

	created := 0
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < rewardColumnCount {
			continue
		}
		title := strings.TrimSpace(record[0])
		price, err := cleanAmount(record[1])
		if err != nil || title == "" {
			continue
		}
		input := rewards.CreateInput{
			CampaignID:  s.campaignID,
			Title:       title,
			Price:       price,
			Description: strings.TrimSpace(record[2]),
		}
		if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
			for _, item := range strings.Split(record[3], ";") {
				if trimmed := strings.TrimSpace(item); trimmed != "" {
					input.ItemsIncluded = append(input.ItemsIncluded, trimmed)
				}
			}
		}
		if len(record) > 4 {
			input.EstimatedDelivery = strings.TrimSpace(record[4])
		}
		if len(record) > 5 {
			if quantity, err := strconv.Atoi(strings.TrimSpace(record[5])); err == nil && quantity > 0 {
				input.LimitQuantity = &quantity
			}
		}
		if _, err := s.creator.Create(ctx, input); err != nil {
			return created, err
		}
		created++
	}
	if created == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "no valid rows found in CSV")
	}
	return created, nil
}

// errRowSkipped marks the pre-write validation failure the import reports as
// a skip rather than a system error.
var errRowSkipped = pkgerrors.New(pkgerrors.CodeValidation, "Skipped (missing email or invalid amount)")

func rowErrorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}

func rowErrorReason(err error) string {
	if err == errRowSkipped {
		return "skipped"
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
		return "validation"
	}
	return "ledger"
}
