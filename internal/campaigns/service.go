package campaigns

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

type rewardLister interface {
	ListVisible(ctx context.Context, campaignID string) ([]models.Reward, error)
}

type faqLister interface {
	List(ctx context.Context, campaignID string) ([]models.FAQ, error)
}

// View is the public campaign page payload.
type View struct {
	Campaign *models.Campaign `json:"campaign"`
	Rewards  []models.Reward  `json:"rewards"`
	FAQs     []models.FAQ     `json:"faqs"`
	DaysLeft int              `json:"days_left"`
}

// UpdateInput carries a partial campaign update; nil fields stay untouched.
type UpdateInput struct {
	Title               *string
	Subtitle            *string
	Story               *string
	Risks               *string
	Shipping            *string
	TechnicalDetails    *string
	ManufacturerDetails *string
	HeroImage           *string
	GalleryImages       *[]string
	GoalAmount          *decimal.Decimal
	TotalSupply         *int
	EndsAt              *time.Time
	ShowAnnouncement    *bool
	ShowReservedAmount  *bool
	ShowSoldOutPercent  *bool
	HiddenSections      *[]string
	FAQPageContent      *string
}

// CreatorUpdateInput carries a partial creator profile update.
type CreatorUpdateInput struct {
	Name        *string
	AvatarURL   *string
	Bio         *string
	Location    *string
	PageContent *string
}

// Service serves the campaign singleton: the public page view and the admin
// content updates.
type Service struct {
	repo    Repository
	rewards rewardLister
	faqs    faqLister
}

// NewService wires the campaign service.
func NewService(repo Repository, rewards rewardLister, faqs faqLister) (*Service, error) {
	if repo == nil || rewards == nil || faqs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "campaigns: repository, rewards and faqs are required")
	}
	return &Service{repo: repo, rewards: rewards, faqs: faqs}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load campaign")
	}
	if campaign == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
	}
	return campaign, nil
}

// View assembles the public page: the campaign with its creator, the visible
// reward tiers, the FAQ list and the remaining days.
func (s *Service) View(ctx context.Context, id string) (*View, error) {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rewards, err := s.rewards.ListVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	faqs, err := s.faqs.List(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{
		Campaign: campaign,
		Rewards:  rewards,
		FAQs:     faqs,
		DaysLeft: daysLeft(campaign.EndsAt, time.Now()),
	}, nil
}

// Love bumps the campaign's loves counter in a single atomic update and
// returns the new value.
func (s *Service) Love(ctx context.Context, id string) (int, error) {
	if err := s.repo.IncrementLoves(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count love")
	}
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return campaign.LovesCount, nil
}

func (s *Service) UpdateDetails(ctx context.Context, id string, input UpdateInput) (*models.Campaign, error) {
	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Subtitle != nil {
		fields["subtitle"] = *input.Subtitle
	}
	if input.Story != nil {
		fields["story"] = *input.Story
	}
	if input.Risks != nil {
		fields["risks"] = *input.Risks
	}
	if input.Shipping != nil {
		fields["shipping"] = *input.Shipping
	}
	if input.TechnicalDetails != nil {
		fields["technical_details"] = *input.TechnicalDetails
	}
	if input.ManufacturerDetails != nil {
		fields["manufacturer_details"] = *input.ManufacturerDetails
	}
	if input.HeroImage != nil {
		fields["hero_image"] = *input.HeroImage
	}
	if input.GalleryImages != nil {
		fields["gallery_images"] = pq.StringArray(*input.GalleryImages)
	}
	if input.GoalAmount != nil {
		if input.GoalAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "goal amount must not be negative")
		}
		fields["goal_amount"] = *input.GoalAmount
	}
	if input.TotalSupply != nil {
		fields["total_supply"] = *input.TotalSupply
	}
	if input.EndsAt != nil {
		fields["ends_at"] = *input.EndsAt
	}
	if input.ShowAnnouncement != nil {
		fields["show_announcement"] = *input.ShowAnnouncement
	}
	if input.ShowReservedAmount != nil {
		fields["show_reserved_amount"] = *input.ShowReservedAmount
	}
	if input.ShowSoldOutPercent != nil {
		fields["show_sold_out_percent"] = *input.ShowSoldOutPercent
	}
	if input.HiddenSections != nil {
		fields["hidden_sections"] = pq.StringArray(*input.HiddenSections)
	}
	if input.FAQPageContent != nil {
		fields["faq_page_content"] = *input.FAQPageContent
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update campaign")
	}
	return s.Get(ctx, id)
}

func (s *Service) UpdateCreator(ctx context.Context, creatorID string, input CreatorUpdateInput) error {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.AvatarURL != nil {
		fields["avatar_url"] = *input.AvatarURL
	}
	if input.Bio != nil {
		fields["bio"] = *input.Bio
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.PageContent != nil {
		fields["page_content"] = *input.PageContent
	}
	if err := s.repo.UpdateCreatorFields(ctx, creatorID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "creator not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update creator")
	}
	return nil
}

// daysLeft rounds up so a campaign ending later today still shows one day.
func daysLeft(endsAt, now time.Time) int {
	if endsAt.IsZero() || !endsAt.After(now) {
		return 0
	}
	return int(math.Ceil(endsAt.Sub(now).Hours() / 24))
}
