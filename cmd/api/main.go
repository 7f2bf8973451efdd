package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/musical-basics/crowdfunding-page-test/api/routes"
	"github.com/musical-basics/crowdfunding-page-test/internal/campaigns"
	"github.com/musical-basics/crowdfunding-page-test/internal/customers"
	"github.com/musical-basics/crowdfunding-page-test/internal/faqs"
	"github.com/musical-basics/crowdfunding-page-test/internal/importer"
	"github.com/musical-basics/crowdfunding-page-test/internal/pledges"
	"github.com/musical-basics/crowdfunding-page-test/internal/rewards"
	"github.com/musical-basics/crowdfunding-page-test/internal/stats"
	"github.com/musical-basics/crowdfunding-page-test/internal/updates"
	"github.com/musical-basics/crowdfunding-page-test/internal/webhooks/shopify"
	"github.com/musical-basics/crowdfunding-page-test/pkg/config"
	"github.com/musical-basics/crowdfunding-page-test/pkg/db"
	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/metrics"
	"github.com/musical-basics/crowdfunding-page-test/pkg/migrate"
	"github.com/musical-basics/crowdfunding-page-test/pkg/redis"
)

// The stats service consumes the ledger and counter seams through its own
// interfaces; pin them here so a signature drift fails the build instead of
// the wiring below.
var (
	_ stats.PledgeLedger     = (pledges.Service)(nil)
	_ stats.CampaignCounters = (campaigns.Repository)(nil)
	_ stats.RewardCounters   = (rewards.Repository)(nil)
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis only backs the webhook idempotency guard, so a deployment
	// without it still serves every write path.
	var webhookGuard *shopify.Guard
	if cfg.Redis.Configured() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		webhookGuard = shopify.NewGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, logg)
	} else {
		logg.Warn(context.Background(), "redis not configured, webhook dedup relies on the ledger only")
	}

	m := metrics.NewIngestMetrics(prometheus.DefaultRegisterer)
	gormDB := dbClient.DB()

	customerSvc, err := customers.NewService(customers.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}
	pledgeSvc, err := pledges.NewService(pledges.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create pledges service", err)
		os.Exit(1)
	}

	campaignRepo := campaigns.NewRepository(gormDB)
	rewardRepo := rewards.NewRepository(gormDB)
	statsSvc, err := stats.NewService(pledgeSvc, campaignRepo, rewardRepo, m, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	rewardSvc, err := rewards.NewService(rewardRepo, pledgeSvc, statsSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create rewards service", err)
		os.Exit(1)
	}
	faqSvc, err := faqs.NewService(faqs.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create faqs service", err)
		os.Exit(1)
	}
	campaignSvc, err := campaigns.NewService(campaignRepo, rewardSvc, faqSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaigns service", err)
		os.Exit(1)
	}
	updateSvc, err := updates.NewService(updates.NewRepository(gormDB), pledgeSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create updates service", err)
		os.Exit(1)
	}
	importSvc, err := importer.NewService(cfg.Campaign.ID, customerSvc, pledgeSvc, rewardSvc, rewardSvc, statsSvc, m, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create importer service", err)
		os.Exit(1)
	}
	webhookSvc, err := shopify.NewService(cfg.Campaign.ID, customerSvc, pledgeSvc, rewardSvc, statsSvc, webhookGuard, m, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"campaign": cfg.Campaign.ID,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, m,
			customerSvc, pledgeSvc, statsSvc,
			campaignSvc, rewardSvc, faqSvc, updateSvc,
			importSvc, webhookSvc,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
