package worker

import (
	"context"
	"time"

	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/redis"
	"github.com/gradepoint/gradepoint/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRUNER
// ══════════════════════════════════════════════════════════════════════════════

// PatternDeleter removes every key matching a pattern.
type PatternDeleter interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// OrphanDeleter removes grade rows whose owning course no longer exists.
type OrphanDeleter interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// Pruner periodically sweeps stale state. Rate-limit counters normally
// expire on their own; the sweep catches the ones whose Expire call
// failed on the rate limiter's fail-open path and would otherwise block
// a client forever. Orphaned grade rows cannot be produced by the
// repositories themselves, so that sweep only ever finds rows imported
// before the cascade constraint existed.
type Pruner struct {
	counters PatternDeleter // nil when Redis is disabled
	rows     OrphanDeleter
	log      *logger.Logger
	interval time.Duration
}

// NewPruner creates a Pruner. Either target may be nil; the
// corresponding sweep is skipped.
func NewPruner(counters PatternDeleter, rows OrphanDeleter, log *logger.Logger, interval time.Duration) *Pruner {
	if log == nil {
		log = logger.Default()
	}
	return &Pruner{
		counters: counters,
		rows:     rows,
		log:      log.With(logger.Component("pruner")),
		interval: interval,
	}
}

// Run prunes on every interval tick until the context is cancelled.
func (p *Pruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *Pruner) sweep(ctx context.Context) {
	if p.counters != nil {
		if err := p.counters.DeleteByPattern(ctx, redis.PrefixRateLimit+"*"); err != nil {
			p.log.Warn("rate limit sweep failed", logger.Err(err))
		} else {
			p.log.Debug("rate limit counters swept")
		}
	}

	if p.rows != nil {
		removed, err := p.rows.DeleteOrphans(ctx)
		if err != nil {
			p.log.Warn("orphan row sweep failed", logger.Err(err))
		} else if removed > 0 {
			p.log.Info("orphaned grade rows removed", logger.Int64("count", removed))
		}
	}
}
