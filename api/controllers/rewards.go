package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	"github.com/musical-basics/crowdfunding-page-test/api/validators"
	rewardsvc "github.com/musical-basics/crowdfunding-page-test/internal/rewards"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

type createRewardRequest struct {
	Title             string           `json:"title" validate:"required"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price" validate:"required"`
	OriginalPrice     *decimal.Decimal `json:"original_price"`
	ItemsIncluded     []string         `json:"items_included"`
	EstimatedDelivery string           `json:"estimated_delivery"`
	ShipsTo           []string         `json:"ships_to"`
	LimitQuantity     *int             `json:"limit_quantity"`
	ImageURL          *string          `json:"image_url"`
	IsFeatured        bool             `json:"is_featured"`
	BadgeType         string           `json:"badge_type"`
	CheckoutURL       *string          `json:"checkout_url"`
	ShopifyVariantID  *string          `json:"shopify_variant_id"`
	RewardType        string           `json:"reward_type"`
	IsVisible         *bool            `json:"is_visible"`
	SortOrder         int              `json:"sort_order"`
}

func AdminCreateReward(svc *rewardsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRewardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reward, err := svc.Create(r.Context(), rewardsvc.CreateInput{
			CampaignID:        campaignID,
			Title:             payload.Title,
			Description:       payload.Description,
			Price:             payload.Price,
			OriginalPrice:     payload.OriginalPrice,
			ItemsIncluded:     payload.ItemsIncluded,
			EstimatedDelivery: payload.EstimatedDelivery,
			ShipsTo:           payload.ShipsTo,
			LimitQuantity:     payload.LimitQuantity,
			ImageURL:          payload.ImageURL,
			IsFeatured:        payload.IsFeatured,
			BadgeType:         payload.BadgeType,
			CheckoutURL:       payload.CheckoutURL,
			ShopifyVariantID:  payload.ShopifyVariantID,
			RewardType:        payload.RewardType,
			IsVisible:         payload.IsVisible,
			SortOrder:         payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reward)
	}
}

func AdminListRewards(svc *rewardsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rewards, err := svc.ListAdmin(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rewards)
	}
}

type updateRewardRequest struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	OriginalPrice     *decimal.Decimal `json:"original_price"`
	ItemsIncluded     *[]string        `json:"items_included"`
	EstimatedDelivery *string          `json:"estimated_delivery"`
	ShipsTo           *[]string        `json:"ships_to"`
	LimitQuantity     *int             `json:"limit_quantity"`
	IsSoldOut         *bool            `json:"is_sold_out"`
	ImageURL          *string          `json:"image_url"`
	IsFeatured        *bool            `json:"is_featured"`
	BadgeType         *string          `json:"badge_type"`
	CheckoutURL       *string          `json:"checkout_url"`
	ShopifyVariantID  *string          `json:"shopify_variant_id"`
	RewardType        *string          `json:"reward_type"`
	IsVisible         *bool            `json:"is_visible"`
	SortOrder         *int             `json:"sort_order"`
}

func AdminUpdateReward(svc *rewardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateRewardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reward, err := svc.Update(r.Context(), id, rewardsvc.UpdateInput{
			Title:             payload.Title,
			Description:       payload.Description,
			Price:             payload.Price,
			OriginalPrice:     payload.OriginalPrice,
			ItemsIncluded:     payload.ItemsIncluded,
			EstimatedDelivery: payload.EstimatedDelivery,
			ShipsTo:           payload.ShipsTo,
			LimitQuantity:     payload.LimitQuantity,
			IsSoldOut:         payload.IsSoldOut,
			ImageURL:          payload.ImageURL,
			IsFeatured:        payload.IsFeatured,
			BadgeType:         payload.BadgeType,
			CheckoutURL:       payload.CheckoutURL,
			ShopifyVariantID:  payload.ShopifyVariantID,
			RewardType:        payload.RewardType,
			IsVisible:         payload.IsVisible,
			SortOrder:         payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reward)
	}
}

func AdminDeleteReward(svc *rewardsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), campaignID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminDuplicateReward(svc *rewardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clone, err := svc.Duplicate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, clone)
	}
}

type reorderRewardsRequest struct {
	Order []uuid.UUID `json:"order" validate:"required,min=1"`
}

func AdminReorderRewards(svc *rewardsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderRewardsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Reorder(r.Context(), campaignID, payload.Order); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reordered"})
	}
}
