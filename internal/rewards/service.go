package rewards

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/internal/stats"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/types"
)

// priceMatchEpsilon is how far an imported amount may sit from a reward's
// price and still be attributed to it.
var priceMatchEpsilon = decimal.NewFromInt(1)

// pledgeDeleter removes a reward's ledger rows ahead of the reward itself.
// There is no FK cascade; deletion is an explicit two-step.
type pledgeDeleter interface {
	DeleteByReward(ctx context.Context, campaignID string, rewardID uuid.UUID) (int64, error)
}

type statsRecomputer interface {
	RecomputeCampaignTotals(ctx context.Context, campaignID string) (stats.Totals, error)
	RecomputeRewardCounts(ctx context.Context, campaignID string) error
}

// CreateInput carries a new reward tier.
type CreateInput struct {
	CampaignID        string
	Title             string
	Description       string
	Price             decimal.Decimal
	OriginalPrice     *decimal.Decimal
	ItemsIncluded     []string
	EstimatedDelivery string
	ShipsTo           []string
	LimitQuantity     *int
	ImageURL          *string
	IsFeatured        bool
	BadgeType         string
	CheckoutURL       *string
	ShopifyVariantID  *string
	RewardType        string
	IsVisible         *bool
	SortOrder         int
}

// UpdateInput carries a partial reward update; nil fields stay untouched.
type UpdateInput struct {
	Title             *string
	Description       *string
	Price             *decimal.Decimal
	OriginalPrice     *decimal.Decimal
	ItemsIncluded     *[]string
	EstimatedDelivery *string
	ShipsTo           *[]string
	LimitQuantity     *int
	IsSoldOut         *bool
	ImageURL          *string
	IsFeatured        *bool
	BadgeType         *string
	CheckoutURL       *string
	ShopifyVariantID  *string
	RewardType        *string
	IsVisible         *bool
	SortOrder         *int
}

// Service owns the reward tier lifecycle and the matching rules the import
// and webhook paths use to attribute pledges to tiers.
type Service struct {
	repo    Repository
	pledges pledgeDeleter
	stats   statsRecomputer
	log     *logger.Logger
}

// NewService wires the reward service.
func NewService(repo Repository, pledges pledgeDeleter, stats statsRecomputer, log *logger.Logger) (*Service, error) {
	if repo == nil || pledges == nil || stats == nil || log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "rewards: repository, pledge deleter, stats and logger are required")
	}
	return &Service{repo: repo, pledges: pledges, stats: stats, log: log}, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Reward, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward price must not be negative")
	}
	reward := &models.Reward{
		ID:                uuid.New(),
		CampaignID:        input.CampaignID,
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		Price:             input.Price,
		OriginalPrice:     input.OriginalPrice,
		ItemsIncluded:     pq.StringArray(input.ItemsIncluded),
		EstimatedDelivery: input.EstimatedDelivery,
		ShipsTo:           pq.StringArray(input.ShipsTo),
		LimitQuantity:     input.LimitQuantity,
		ImageURL:          input.ImageURL,
		IsFeatured:        input.IsFeatured,
		BadgeType:         enums.NormalizeBadgeType(input.BadgeType),
		CheckoutURL:       input.CheckoutURL,
		ShopifyVariantID:  input.ShopifyVariantID,
		RewardType:        enums.NormalizeRewardType(input.RewardType),
		IsVisible:         true,
		SortOrder:         input.SortOrder,
	}
	if input.IsVisible != nil {
		reward.IsVisible = *input.IsVisible
	}
	if err := s.repo.Create(ctx, reward); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create reward")
	}
	return reward, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	reward, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load reward")
	}
	if reward == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
	}
	return reward, nil
}

func (s *Service) ListAdmin(ctx context.Context, campaignID string) ([]models.Reward, error) {
	return s.list(ctx, campaignID, false)
}

func (s *Service) ListVisible(ctx context.Context, campaignID string) ([]models.Reward, error) {
	return s.list(ctx, campaignID, true)
}

func (s *Service) list(ctx context.Context, campaignID string, visibleOnly bool) ([]models.Reward, error) {
	rewards, err := s.repo.ListByCampaign(ctx, campaignID, visibleOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list rewards")
	}
	return rewards, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Reward, error) {
	fields := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward title must not be blank")
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.OriginalPrice != nil {
		fields["original_price"] = *input.OriginalPrice
	}
	if input.ItemsIncluded != nil {
		fields["items_included"] = pq.StringArray(*input.ItemsIncluded)
	}
	if input.EstimatedDelivery != nil {
		fields["estimated_delivery"] = *input.EstimatedDelivery
	}
	if input.ShipsTo != nil {
		fields["ships_to"] = pq.StringArray(*input.ShipsTo)
	}
	if input.LimitQuantity != nil {
		fields["limit_quantity"] = *input.LimitQuantity
	}
	if input.IsSoldOut != nil {
		fields["is_sold_out"] = *input.IsSoldOut
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}
	if input.IsFeatured != nil {
		fields["is_featured"] = *input.IsFeatured
	}
	if input.BadgeType != nil {
		fields["badge_type"] = enums.NormalizeBadgeType(*input.BadgeType)
	}
	if input.CheckoutURL != nil {
		fields["checkout_url"] = *input.CheckoutURL
	}
	if input.ShopifyVariantID != nil {
		fields["shopify_variant_id"] = *input.ShopifyVariantID
	}
	if input.RewardType != nil {
		fields["reward_type"] = enums.NormalizeRewardType(*input.RewardType)
	}
	if input.IsVisible != nil {
		fields["is_visible"] = *input.IsVisible
	}
	if input.SortOrder != nil {
		fields["sort_order"] = *input.SortOrder
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update reward")
	}
	return s.Get(ctx, id)
}

// Duplicate clones a reward as a hidden draft titled "Copy of <title>" with
// a fresh id and a zeroed backer count.
func (s *Service) Duplicate(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := *source
	clone.ID = uuid.New()
	clone.Title = "Copy of " + source.Title
	clone.BackersCount = 0
	clone.IsVisible = false
	clone.SortOrder = source.SortOrder + 1
	if err := s.repo.Create(ctx, &clone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to duplicate reward")
	}
	return &clone, nil
}

// Delete removes a reward and every pledge attributed to it, then rebuilds
// the cached totals so they track the remaining ledger.
func (s *Service) Delete(ctx context.Context, campaignID string, id uuid.UUID) error {
	reward, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.pledges.DeleteByReward(ctx, campaignID, reward.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete reward pledges")
	}
	if err := s.repo.Delete(ctx, reward.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete reward")
	}
	s.log.Info(s.log.WithField(ctx, "deleted_pledges", deleted), "reward deleted with its pledges")
	if _, err := s.stats.RecomputeCampaignTotals(ctx, campaignID); err != nil {
		return err
	}
	return s.stats.RecomputeRewardCounts(ctx, campaignID)
}

func (s *Service) Reorder(ctx context.Context, campaignID string, ordered []uuid.UUID) error {
	if len(ordered) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reward order must not be empty")
	}
	if err := s.repo.SetSortOrders(ctx, campaignID, ordered); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reorder rewards")
	}
	return nil
}

// MatchByTitleOrPrice attributes an imported row to a reward: exact title
// match first (case-insensitive), then any reward whose price sits within
// the epsilon of the pledged amount. Returns nil when nothing matches.
func (s *Service) MatchByTitleOrPrice(ctx context.Context, campaignID, title string, amount decimal.Decimal) (*models.Reward, error) {
	rewards, err := s.repo.ListByCampaign(ctx, campaignID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list rewards")
	}
	wanted := strings.ToLower(strings.TrimSpace(title))
	if wanted != "" {
		for i := range rewards {
			if strings.ToLower(strings.TrimSpace(rewards[i].Title)) == wanted {
				return &rewards[i], nil
			}
		}
	}
	for i := range rewards {
		if rewards[i].Price.Sub(amount).Abs().LessThanOrEqual(priceMatchEpsilon) {
			return &rewards[i], nil
		}
	}
	return nil, nil
}

// MatchByVariant attributes a webhook line item to a reward through its
// variant reference. optionKey narrows option-map references, with the
// reference's own default as fallback. Returns nil when nothing matches.
func (s *Service) MatchByVariant(ctx context.Context, campaignID, variantID, optionKey string) (*models.Reward, error) {
	if strings.TrimSpace(variantID) == "" {
		return nil, nil
	}
	rewards, err := s.repo.ListByCampaign(ctx, campaignID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list rewards")
	}
	for i := range rewards {
		if rewards[i].ShopifyVariantID == nil {
			continue
		}
		ref := types.ParseVariantRef(*rewards[i].ShopifyVariantID)
		if ref.Kind() == types.VariantRefOptionMap && optionKey != "" {
			if resolved, ok := ref.Resolve(optionKey); ok && resolved == variantID {
				return &rewards[i], nil
			}
		}
		if ref.Matches(variantID) {
			return &rewards[i], nil
		}
	}
	return nil, nil
}
