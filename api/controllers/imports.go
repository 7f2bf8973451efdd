package controllers

import (
	"net/http"

	"github.com/musical-basics/crowdfunding-page-test/api/responses"
	importsvc "github.com/musical-basics/crowdfunding-page-test/internal/importer"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
)

// AdminImportPledges ingests a CSV request body. Partial failure is a
// success response carrying the per-row errors.
func AdminImportPledges(svc *importsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		result, err := svc.ImportPledges(r.Context(), r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminImportRewards(svc *importsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		created, err := svc.ImportRewards(r.Context(), r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"created": created})
	}
}
