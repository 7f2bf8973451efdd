package pledges

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// RecordInput describes one pledge to append to the ledger. CreatedAt may be
// set to a historical instant when backfilling; the zero value means now.
type RecordInput struct {
	CampaignID       string
	RewardID         *uuid.UUID
	CustomerID       uuid.UUID
	Amount           decimal.Decimal
	Status           enums.PledgeStatus
	ShippingAddress  *string
	ShippingLocation *string
	ExternalOrderRef *string
	CreatedAt        time.Time
}

// Service owns ledger writes and reads. It never touches the cached
// aggregate counters; callers invoke the stats layer after a successful
// Record.
type Service interface {
	Record(ctx context.Context, input RecordInput) (uuid.UUID, error)
	ListBackers(ctx context.Context, campaignID string) ([]models.Pledge, error)
	// ReassignReward moves a pledge onto a different reward, or off any
	// reward when rewardID is nil. Cached reward counts drift until the
	// caller recomputes them.
	ReassignReward(ctx context.Context, pledgeID uuid.UUID, rewardID *uuid.UUID) error
	DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error)
	HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error)
	SumAndCountSucceeded(ctx context.Context, campaignID string) (decimal.Decimal, int64, error)
	CountSucceededByReward(ctx context.Context, campaignID string) (map[uuid.UUID]int64, error)
	BackerEmails(ctx context.Context, campaignID string) (map[string]bool, error)
	ExportCSV(ctx context.Context, campaignID string, w io.Writer) error
}

type service struct {
	repo Repository
}

// NewService wires the pledge service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pledges: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (uuid.UUID, error) {
	if strings.TrimSpace(input.CampaignID) == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	if input.CustomerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.Amount.IsNegative() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	status := input.Status
	if status == "" {
		status = enums.PledgeStatusSucceeded
	}
	if !status.IsValid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown pledge status")
	}

	pledge := &models.Pledge{
		ID:               uuid.New(),
		CampaignID:       input.CampaignID,
		RewardID:         input.RewardID,
		CustomerID:       input.CustomerID,
		Amount:           input.Amount,
		Status:           status,
		ShippingAddress:  input.ShippingAddress,
		ShippingLocation: input.ShippingLocation,
		ExternalOrderRef: input.ExternalOrderRef,
	}
	if !input.CreatedAt.IsZero() {
		pledge.CreatedAt = input.CreatedAt
	}
	if err := s.repo.Create(ctx, pledge); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pledge not recorded")
	}
	return pledge.ID, nil
}

func (s *service) ListBackers(ctx context.Context, campaignID string) ([]models.Pledge, error) {
	rows, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list pledges")
	}
	return rows, nil
}

func (s *service) ReassignReward(ctx context.Context, pledgeID uuid.UUID, rewardID *uuid.UUID) error {
	pledge, err := s.repo.GetByID(ctx, pledgeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load pledge")
	}
	if pledge == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "pledge not found")
	}
	if err := s.repo.UpdateReward(ctx, pledgeID, rewardID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reassign pledge reward")
	}
	return nil
}

func (s *service) DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error) {
	deleted, err := s.repo.DeleteByReward(ctx, campaignID, rewardID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete reward pledges")
	}
	return deleted, nil
}

func (s *service) HasExternalOrderRef(ctx context.Context, campaignID, ref string) (bool, error) {
	return s.repo.HasExternalOrderRef(ctx, campaignID, ref)
}

func (s *service) SumAndCountSucceeded(ctx context.Context, campaignID string) (decimal.Decimal, int64, error) {
	return s.repo.SumAndCountSucceeded(ctx, campaignID)
}

func (s *service) CountSucceededByReward(ctx context.Context, campaignID string) (map[uuid.UUID]int64, error) {
	return s.repo.CountSucceededByReward(ctx, campaignID)
}

func (s *service) BackerEmails(ctx context.Context, campaignID string) (map[string]bool, error) {
	emails, err := s.repo.ListSucceededEmails(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load backer emails")
	}
	set := make(map[string]bool, len(emails))
	for _, email := range emails {
		set[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return set, nil
}

var exportHeader = []string{"email", "name", "amount", "status", "reward", "location", "address", "date"}

// ExportCSV streams the campaign's pledges, newest first, as CSV.
func (s *service) ExportCSV(ctx context.Context, campaignID string, w io.Writer) error {
	rows, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list pledges")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export")
	}
	for _, pledge := range rows {
		record := []string{
			"", "",
			pledge.Amount.StringFixed(2),
			string(pledge.Status),
			"",
			derefString(pledge.ShippingLocation),
			derefString(pledge.ShippingAddress),
			pledge.CreatedAt.UTC().Format(time.RFC3339),
		}
		if pledge.Customer != nil {
			record[0] = pledge.Customer.Email
			record[1] = pledge.Customer.Name
		}
		if pledge.Reward != nil {
			record[4] = pledge.Reward.Title
		}
		if err := writer.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write export")
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
