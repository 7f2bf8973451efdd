package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	"github.com/musical-basics/crowdfunding-page-test/api/validators"
	"github.com/musical-basics/crowdfunding-page-test/internal/customers"
	pledgesvc "github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/internal/stats"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	"github.com/musical-basics/crowdfunding-page-test/pkg/enums"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
)

type createPledgeRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	RewardID *uuid.UUID      `json:"reward_id"`
	Address  *string         `json:"address"`
	Location *string         `json:"location"`
	Status   string          `json:"status"`
	Date     *time.Time      `json:"date"`
}

// CreatePledge records one pledge from the checkout form or the admin's
// manual entry; the admin path may carry a status and a historical date.
func CreatePledge(customerSvc customers.Service, pledgeSvc pledgesvc.Service, statsSvc *stats.Service, campaignID, source string, m *metrics.IngestMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPledgeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		customerID, err := customerSvc.Resolve(ctx, payload.Email, payload.Name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := pledgesvc.RecordInput{
			CampaignID:       campaignID,
			RewardID:         payload.RewardID,
			CustomerID:       customerID,
			Amount:           payload.Amount,
			Status:           enums.PledgeStatus(payload.Status),
			ShippingAddress:  payload.Address,
			ShippingLocation: payload.Location,
		}
		if payload.Date != nil {
			input.CreatedAt = *payload.Date
		}
		pledgeID, err := pledgeSvc.Record(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		m.IncPledge(source)

		if input.Status == "" || input.Status == enums.PledgeStatusSucceeded {
			if err := statsSvc.ApplyPledgeDelta(ctx, campaignID, payload.RewardID, payload.Amount); err != nil {
				logg.Error(ctx, "pledge recorded but counters lag until recompute", err)
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"id": pledgeID})
	}
}

type backerResponse struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Reward    *string         `json:"reward,omitempty"`
	RewardID  *uuid.UUID      `json:"reward_id,omitempty"`
	Location  *string         `json:"location,omitempty"`
	Address   *string         `json:"address,omitempty"`
	OrderRef  *string         `json:"order_ref,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func toBackerResponse(pledge models.Pledge) backerResponse {
	out := backerResponse{
		ID:        pledge.ID,
		Amount:    pledge.Amount,
		Status:    string(pledge.Status),
		RewardID:  pledge.RewardID,
		Location:  pledge.ShippingLocation,
		Address:   pledge.ShippingAddress,
		OrderRef:  pledge.ExternalOrderRef,
		CreatedAt: pledge.CreatedAt,
	}
	if pledge.Customer != nil {
		out.Email = pledge.Customer.Email
		out.Name = pledge.Customer.Name
	}
	if pledge.Reward != nil {
		out.Reward = &pledge.Reward.Title
	}
	return out
}

func AdminListBackers(pledgeSvc pledgesvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := pledgeSvc.ListBackers(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		backers := make([]backerResponse, 0, len(rows))
		for _, pledge := range rows {
			backers = append(backers, toBackerResponse(pledge))
		}
		responses.WriteSuccess(w, backers)
	}
}

type reassignRewardRequest struct {
	RewardID *uuid.UUID `json:"reward_id"`
}

// AdminReassignPledgeReward moves a pledge to another reward (or off any
// reward) and rebuilds the per-reward counts right away.
func AdminReassignPledgeReward(pledgeSvc pledgesvc.Service, statsSvc *stats.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pledgeID, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload reassignRewardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if err := pledgeSvc.ReassignReward(ctx, pledgeID, payload.RewardID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := statsSvc.RecomputeRewardCounts(ctx, campaignID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "reassigned"})
	}
}

// AdminRecalculate runs the idempotent repair and reports fresh totals.
func AdminRecalculate(statsSvc *stats.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := statsSvc.RecomputeAll(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

func AdminExportPledges(pledgeSvc pledgesvc.Service, campaignID string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="backers.csv"`)
		if err := pledgeSvc.ExportCSV(r.Context(), campaignID, w); err != nil {
			// Headers are already written; all that is left is logging.
			logg.Error(r.Context(), "pledge export failed mid-stream", err)
		}
	}
}
