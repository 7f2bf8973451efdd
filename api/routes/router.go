package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musical-basics/crowdfunding-page-test/api/controllers"
	"github.com/musical-basics/crowdfunding-page-test/api/middleware"
	campaignsvc "github.com/musical-basics/crowdfunding-page-test/internal/campaigns"
	"github.com/musical-basics/crowdfunding-page-test/internal/customers"
	faqsvc "github.com/musical-basics/crowdfunding-page-test/internal/faqs"
	importsvc "github.com/musical-basics/crowdfunding-page-test/internal/importer"
	pledgesvc "github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	rewardsvc "github.com/musical-basics/crowdfunding-page-test/internal/rewards"
	"github.com/musical-basics/crowdfunding-page-test/internal/stats"
	updatesvc "github.com/musical-basics/crowdfunding-page-test/internal/updates"
	"github.com/musical-basics/crowdfunding-page-test/internal/webhooks/shopify"
	"github.com/musical-basics/crowdfunding-page-test/pkg/config"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	m *metrics.IngestMetrics,
	customerSvc customers.Service,
	pledgeSvc pledgesvc.Service,
	statsSvc *stats.Service,
	campaignSvc *campaignsvc.Service,
	rewardSvc *rewardsvc.Service,
	faqSvc *faqsvc.Service,
	updateSvc *updatesvc.Service,
	importSvc *importsvc.Service,
	webhookSvc *shopify.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	campaignID := cfg.Campaign.ID

	r.Get("/healthz", controllers.Health(cfg))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/campaign", controllers.PublicCampaign(campaignSvc, campaignID, logg))
		r.Post("/campaign/love", controllers.LoveCampaign(campaignSvc, campaignID, logg))
		r.Post("/pledges", controllers.CreatePledge(customerSvc, pledgeSvc, statsSvc, campaignID, "public", m, logg))

		r.Route("/updates", func(r chi.Router) {
			r.Get("/", controllers.CommunityFeed(updateSvc, campaignID, logg))
			r.Post("/{id}/comments", controllers.CreateComment(updateSvc, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/shopify", controllers.ShopifyWebhook(webhookSvc, cfg.Shopify.WebhookSecret, m, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/backers", controllers.AdminListBackers(pledgeSvc, campaignID, logg))
			r.Post("/recalculate", controllers.AdminRecalculate(statsSvc, campaignID, logg))

			r.Route("/pledges", func(r chi.Router) {
				r.Post("/", controllers.CreatePledge(customerSvc, pledgeSvc, statsSvc, campaignID, "manual", m, logg))
				r.Post("/import", controllers.AdminImportPledges(importSvc, logg))
				r.Get("/export", controllers.AdminExportPledges(pledgeSvc, campaignID, logg))
				r.Patch("/{id}/reward", controllers.AdminReassignPledgeReward(pledgeSvc, statsSvc, campaignID, logg))
			})

			r.Route("/rewards", func(r chi.Router) {
				r.Get("/", controllers.AdminListRewards(rewardSvc, campaignID, logg))
				r.Post("/", controllers.AdminCreateReward(rewardSvc, campaignID, logg))
				r.Post("/order", controllers.AdminReorderRewards(rewardSvc, campaignID, logg))
				r.Post("/import", controllers.AdminImportRewards(importSvc, logg))
				r.Patch("/{id}", controllers.AdminUpdateReward(rewardSvc, logg))
				r.Delete("/{id}", controllers.AdminDeleteReward(rewardSvc, campaignID, logg))
				r.Post("/{id}/duplicate", controllers.AdminDuplicateReward(rewardSvc, logg))
			})

			r.Patch("/campaign", controllers.AdminUpdateCampaign(campaignSvc, campaignID, logg))
			r.Patch("/creator", controllers.AdminUpdateCreator(campaignSvc, campaignID, logg))

			r.Route("/faqs", func(r chi.Router) {
				r.Get("/", controllers.AdminListFAQs(faqSvc, campaignID, logg))
				r.Post("/", controllers.AdminCreateFAQ(faqSvc, campaignID, logg))
				r.Patch("/{id}", controllers.AdminUpdateFAQ(faqSvc, logg))
				r.Delete("/{id}", controllers.AdminDeleteFAQ(faqSvc, logg))
			})

			r.Route("/updates", func(r chi.Router) {
				r.Get("/", controllers.CommunityFeed(updateSvc, campaignID, logg))
				r.Post("/", controllers.AdminCreateUpdate(updateSvc, campaignID, logg))
				r.Patch("/{id}", controllers.AdminEditUpdate(updateSvc, logg))
				r.Delete("/{id}", controllers.AdminDeleteUpdate(updateSvc, logg))
				r.Post("/{id}/comments", controllers.CreateComment(updateSvc, logg))
			})
		})
	})

	return r
}
