package controllers

import (
	"net/http"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	"github.com/musical-basics/crowdfunding-page-test/pkg/config"
)

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Campaign", cfg.Campaign.ID)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
