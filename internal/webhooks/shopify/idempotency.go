package shopify

import (
	"context"
	"time"

	"github.com/musical-basics/crowdfunding-page-test/pkg/logger"
	"github.com/musical-basics/crowdfunding-page-test/pkg/redis"
)

const guardScope = "shopify-order"

// Guard claims webhook event ids in a shared store so concurrent instances
// agree on who saw a delivery first. It fails open: if the store is down
// the delivery proceeds and the ledger-level reference check still catches
// duplicates.
type Guard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewGuard wraps the store; ttl bounds how long a claimed event id stays
// reserved.
func NewGuard(store redis.IdempotencyStore, ttl time.Duration, log *logger.Logger) *Guard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Guard{store: store, ttl: ttl, log: log}
}

// FirstDelivery reports whether this process is the first to claim the
// event id.
func (g *Guard) FirstDelivery(ctx context.Context, eventID string) bool {
	if g == nil || g.store == nil {
		return true
	}
	claimed, err := g.store.SetNX(ctx, g.store.IdempotencyKey(guardScope, eventID), 1, g.ttl)
	if err != nil {
		if g.log != nil {
			g.log.Warn(ctx, "idempotency store unavailable, falling back to ledger dedup")
		}
		return true
	}
	return claimed
}
