// Package worker contains the background jobs: the view refresher that
// keeps cached read models warm, and the pruner that sweeps stale
// rate-limit keys and orphaned grade rows.
package worker

import (
	"context"
	"time"

	"github.com/gradepoint/gradepoint/internal/application/query"
	"github.com/gradepoint/gradepoint/internal/domain/user"
	"github.com/gradepoint/gradepoint/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW REFRESHER
// ══════════════════════════════════════════════════════════════════════════════

// GPAStore receives recomputed GPA summaries.
type GPAStore interface {
	SetGPA(ctx context.Context, userID string, s *query.GPASummaryDTO)
}

// ViewRefresherConfig wires the refresher's dependencies.
type ViewRefresherConfig struct {
	Users    user.Repository
	Overview *query.GetOverviewHandler
	GPA      *query.GetGPASummaryHandler
	Views    GPAStore
	Logger   *logger.Logger

	// Interval between full refresh sweeps.
	Interval time.Duration

	// MaxConcurrent bounds how many users refresh at once.
	MaxConcurrent int

	// PerUserTimeout bounds one user's refresh.
	PerUserTimeout time.Duration
}

// ViewRefresher periodically reassembles every user's overview and GPA
// summary and stores them in the cache, so reads after a quiet period
// hit warm data. The overview handler writes its own cache entry when
// run with BypassCache; the GPA summary is stored explicitly.
type ViewRefresher struct {
	cfg ViewRefresherConfig
	log *logger.Logger
}

// NewViewRefresher creates a ViewRefresher.
func NewViewRefresher(cfg ViewRefresherConfig) *ViewRefresher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.PerUserTimeout <= 0 {
		cfg.PerUserTimeout = time.Minute
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &ViewRefresher{cfg: cfg, log: log.With(logger.Component("view_refresher"))}
}

// Run refreshes once immediately, then on every interval tick until the
// context is cancelled.
func (vr *ViewRefresher) Run(ctx context.Context) {
	vr.refreshAll(ctx)

	ticker := time.NewTicker(vr.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			vr.refreshAll(ctx)
		}
	}
}

func (vr *ViewRefresher) refreshAll(ctx context.Context) {
	start := time.Now()

	ids, err := vr.cfg.Users.ListIDs(ctx)
	if err != nil {
		vr.log.Error("failed to list users", logger.Err(err))
		return
	}

	sem := make(chan struct{}, vr.cfg.MaxConcurrent)
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
		}

		go func(userID string) {
			defer func() { <-sem }()
			vr.refreshUser(ctx, userID)
		}(id)
	}

	// Drain so the sweep's duration covers every user.
	for i := 0; i < cap(sem); i++ {
		sem <- struct{}{}
	}

	vr.log.Info("view refresh sweep completed",
		logger.Int("users", len(ids)),
		logger.Latency(time.Since(start)),
	)
}

func (vr *ViewRefresher) refreshUser(ctx context.Context, userID string) {
	userCtx, cancel := context.WithTimeout(ctx, vr.cfg.PerUserTimeout)
	defer cancel()

	if _, err := vr.cfg.Overview.Handle(userCtx, query.GetOverviewQuery{
		UserID:      userID,
		BypassCache: true,
	}); err != nil {
		vr.log.Warn("overview refresh failed", logger.UserID(userID), logger.Err(err))
		return
	}

	summary, err := vr.cfg.GPA.Handle(userCtx, query.GetGPASummaryQuery{UserID: userID})
	if err != nil {
		vr.log.Warn("gpa refresh failed", logger.UserID(userID), logger.Err(err))
		return
	}
	vr.cfg.Views.SetGPA(userCtx, userID, summary)
}
