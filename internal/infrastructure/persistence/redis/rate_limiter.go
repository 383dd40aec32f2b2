package redis

import (
	"context"
	"time"

	"github.com/gradepoint/gradepoint/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter is a fixed-window counter shared across API instances.
// It fails open: if Redis is unreachable the request is allowed, since
// dropping traffic on a cache outage would be worse than briefly losing
// the limit.
type RateLimiter struct {
	cache  *Cache
	log    *logger.Logger
	limit  int
	window time.Duration
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window.
func NewRateLimiter(cache *Cache, log *logger.Logger, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = TTLRateLimitWindow
	}
	return &RateLimiter{cache: cache, log: log, limit: limit, window: window}
}

// Allow reports whether a request from the identifier may proceed.
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) bool {
	if identifier == "" || rl.limit <= 0 {
		return true
	}

	key := RateLimitKey(identifier, "api")
	n, err := rl.cache.Incr(ctx, key)
	if err != nil {
		rl.log.Warn("rate limit counter unavailable", logger.Err(err))
		return true
	}

	// First hit in the window owns setting the expiry. If the Expire
	// call fails the counter lingers until the prune job sweeps it.
	if n == 1 {
		if err := rl.cache.Expire(ctx, key, rl.window); err != nil {
			rl.log.Warn("rate limit expiry failed", logger.Err(err))
		}
	}

	return n <= int64(rl.limit)
}
