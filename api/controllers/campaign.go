package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	"github.com/musical-basics/crowdfunding-page-test/api/validators"
	campaignsvc "github.com/musical-basics/crowdfunding-page-test/internal/campaigns"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

// PublicCampaign serves the campaign page payload: campaign, creator,
// visible rewards, FAQs and days left.
func PublicCampaign(svc *campaignsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// LoveCampaign counts one tap on the page's love button.
func LoveCampaign(svc *campaignsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loves, err := svc.Love(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"loves_count": loves})
	}
}

type updateCampaignRequest struct {
	Title               *string          `json:"title"`
	Subtitle            *string          `json:"subtitle"`
	Story               *string          `json:"story"`
	Risks               *string          `json:"risks"`
	Shipping            *string          `json:"shipping"`
	TechnicalDetails    *string          `json:"technical_details"`
	ManufacturerDetails *string          `json:"manufacturer_details"`
	HeroImage           *string          `json:"hero_image"`
	GalleryImages       *[]string        `json:"gallery_images"`
	GoalAmount          *decimal.Decimal `json:"goal_amount"`
	TotalSupply         *int             `json:"total_supply"`
	EndsAt              *time.Time       `json:"ends_at"`
	ShowAnnouncement    *bool            `json:"show_announcement"`
	ShowReservedAmount  *bool            `json:"show_reserved_amount"`
	ShowSoldOutPercent  *bool            `json:"show_sold_out_percent"`
	HiddenSections      *[]string        `json:"hidden_sections"`
	FAQPageContent      *string          `json:"faq_page_content"`
}

func AdminUpdateCampaign(svc *campaignsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCampaignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaign, err := svc.UpdateDetails(r.Context(), campaignID, campaignsvc.UpdateInput{
			Title:               payload.Title,
			Subtitle:            payload.Subtitle,
			Story:               payload.Story,
			Risks:               payload.Risks,
			Shipping:            payload.Shipping,
			TechnicalDetails:    payload.TechnicalDetails,
			ManufacturerDetails: payload.ManufacturerDetails,
			HeroImage:           payload.HeroImage,
			GalleryImages:       payload.GalleryImages,
			GoalAmount:          payload.GoalAmount,
			TotalSupply:         payload.TotalSupply,
			EndsAt:              payload.EndsAt,
			ShowAnnouncement:    payload.ShowAnnouncement,
			ShowReservedAmount:  payload.ShowReservedAmount,
			ShowSoldOutPercent:  payload.ShowSoldOutPercent,
			HiddenSections:      payload.HiddenSections,
			FAQPageContent:      payload.FAQPageContent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

type updateCreatorRequest struct {
	Name        *string `json:"name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	PageContent *string `json:"page_content"`
}

func AdminUpdateCreator(svc *campaignsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCreatorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		campaign, err := svc.Get(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = svc.UpdateCreator(r.Context(), campaign.CreatorID, campaignsvc.CreatorUpdateInput{
			Name:        payload.Name,
			AvatarURL:   payload.AvatarURL,
			Bio:         payload.Bio,
			Location:    payload.Location,
			PageContent: payload.PageContent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
