package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
)

// PledgeLedger is the aggregate view of the pledge ledger, the source of
// truth the cached counters are derived from.
type PledgeLedger interface {
	SumAndCountSucceeded(ctx context.Context, campaignID string) (decimal.Decimal, int64, error)
	CountSucceededByReward(ctx context.Context, campaignID string) (map[uuid.UUID]int64, error)
}

type CampaignCounters interface {
	IncrementTotals(ctx context.Context, campaignID string, amount decimal.Decimal, backers int) error
	SetTotals(ctx context.Context, campaignID string, totalPledged decimal.Decimal, totalBackers int64) error
}

type RewardCounters interface {
	IncrementBackers(ctx context.Context, rewardID uuid.UUID, delta int) error
	// SetBackerCounts overwrites every reward's cached count for the
	// campaign; rewards missing from counts are reset to zero.
	SetBackerCounts(ctx context.Context, campaignID string, counts map[uuid.UUID]int64) error
}

// Totals is the recomputed campaign-level aggregate.
type Totals struct {
	TotalPledged decimal.Decimal `json:"total_pledged"`
	TotalBackers int64           `json:"total_backers"`
}

// Service maintains the cached aggregate counters. Incremental deltas are a
// latency optimization on the hot path and may drift under concurrent
// writers; Recompute* are the idempotent repair and the only operations a
// correctness-critical caller should rely on.
type Service struct {
	ledger    PledgeLedger
	campaigns CampaignCounters
	rewards   RewardCounters
	metrics   *metrics.IngestMetrics
	log       *logger.Logger
}

// NewService wires the stats aggregator.
func NewService(ledger PledgeLedger, campaigns CampaignCounters, rewards RewardCounters, m *metrics.IngestMetrics, log *logger.Logger) (*Service, error) {
	if ledger == nil || campaigns == nil || rewards == nil || log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stats: ledger, counters and logger are required")
	}
	return &Service{ledger: ledger, campaigns: campaigns, rewards: rewards, metrics: m, log: log}, nil
}

// ApplyPledgeDelta folds one succeeded pledge into the cached counters:
// campaign total pledged grows by amount, total backers by one, and the
// reward's backer count by one when the pledge is assigned to a reward.
func (s *Service) ApplyPledgeDelta(ctx context.Context, campaignID string, rewardID *uuid.UUID, amount decimal.Decimal) error {
	if err := s.campaigns.IncrementTotals(ctx, campaignID, amount, 1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update campaign totals")
	}
	if rewardID != nil {
		if err := s.rewards.IncrementBackers(ctx, *rewardID, 1); err != nil {
			// Campaign totals already moved. The reward count stays stale
			// until the next recompute; log loudly rather than unwind.
			s.log.Error(ctx, "reward backer count increment failed, cache will drift until recompute", err)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update reward backer count")
		}
	}
	return nil
}

// RecomputeCampaignTotals rebuilds the campaign's cached totals from the
// succeeded pledges and returns the fresh values.
func (s *Service) RecomputeCampaignTotals(ctx context.Context, campaignID string) (Totals, error) {
	total, count, err := s.ledger.SumAndCountSucceeded(ctx, campaignID)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to aggregate pledges")
	}
	if err := s.campaigns.SetTotals(ctx, campaignID, total, count); err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store campaign totals")
	}
	s.metrics.IncRecompute()
	return Totals{TotalPledged: total, TotalBackers: count}, nil
}

// RecomputeRewardCounts rebuilds every reward's cached backer count from the
// succeeded pledges, resetting rewards with no pledges to zero.
func (s *Service) RecomputeRewardCounts(ctx context.Context, campaignID string) error {
	counts, err := s.ledger.CountSucceededByReward(ctx, campaignID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to aggregate reward pledges")
	}
	if err := s.rewards.SetBackerCounts(ctx, campaignID, counts); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store reward backer counts")
	}
	return nil
}

// RecomputeAll runs both recomputations, campaign totals first.
func (s *Service) RecomputeAll(ctx context.Context, campaignID string) (Totals, error) {
	totals, err := s.RecomputeCampaignTotals(ctx, campaignID)
	if err != nil {
		return Totals{}, err
	}
	if err := s.RecomputeRewardCounts(ctx, campaignID); err != nil {
		return Totals{}, err
	}
	return totals, nil
}
