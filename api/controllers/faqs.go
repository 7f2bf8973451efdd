package controllers

import (
	"net/http"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	"github.com/musical-basics/crowdfunding-page-test/api/validators"
	faqsvc "github.com/musical-basics/crowdfunding-page-test/internal/faqs"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

func AdminListFAQs(svc *faqsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		faqs, err := svc.List(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, faqs)
	}
}

type createFAQRequest struct {
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer" validate:"required"`
	Category  string `json:"category"`
	SortOrder int    `json:"sort_order"`
}

func AdminCreateFAQ(svc *faqsvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		faq, err := svc.Create(r.Context(), faqsvc.CreateInput{
			CampaignID: campaignID,
			Question:   payload.Question,
			Answer:     payload.Answer,
			Category:   payload.Category,
			SortOrder:  payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, faq)
	}
}

type updateFAQRequest struct {
	Question  *string `json:"question"`
	Answer    *string `json:"answer"`
	Category  *string `json:"category"`
	SortOrder *int    `json:"sort_order"`
}

func AdminUpdateFAQ(svc *faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		faq, err := svc.Update(r.Context(), id, faqsvc.UpdateInput{
			Question:  payload.Question,
			Answer:    payload.Answer,
			Category:  payload.Category,
			SortOrder: payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, faq)
	}
}

func AdminDeleteFAQ(svc *faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
