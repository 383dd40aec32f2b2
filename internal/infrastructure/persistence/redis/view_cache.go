package redis

import (
	"context"
	"errors"

	"github.com/gradepoint/gradepoint/internal/application/query"
	"github.com/gradepoint/gradepoint/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ViewCache caches the per-user read models (overview and GPA summary).
// It implements query.OverviewCache and command.ViewInvalidator.
//
// All operations are best-effort: a Redis failure is logged and otherwise
// swallowed, so reads fall through to PostgreSQL and writes proceed with a
// possibly stale cache until the TTL expires.
type ViewCache struct {
	cache *Cache
	log   *logger.Logger
}

// NewViewCache creates a new ViewCache.
func NewViewCache(cache *Cache, log *logger.Logger) *ViewCache {
	return &ViewCache{cache: cache, log: log}
}

// Get returns the cached overview for a user, if present.
func (v *ViewCache) Get(ctx context.Context, userID string) (*query.OverviewDTO, bool) {
	var out query.OverviewDTO
	err := v.cache.Get(ctx, OverviewKey(userID), &out)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			v.log.Warn("overview cache read failed", logger.UserID(userID), logger.Err(err))
		}
		return nil, false
	}
	return &out, true
}

// Set stores the overview for a user.
func (v *ViewCache) Set(ctx context.Context, userID string, o *query.OverviewDTO) {
	if err := v.cache.Set(ctx, OverviewKey(userID), o, TTLOverviewCache); err != nil {
		v.log.Warn("overview cache write failed", logger.UserID(userID), logger.Err(err))
	}
}

// GetGPA returns the cached GPA summary for a user, if present.
func (v *ViewCache) GetGPA(ctx context.Context, userID string) (*query.GPASummaryDTO, bool) {
	var out query.GPASummaryDTO
	err := v.cache.Get(ctx, GPAKey(userID), &out)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			v.log.Warn("gpa cache read failed", logger.UserID(userID), logger.Err(err))
		}
		return nil, false
	}
	return &out, true
}

// SetGPA stores the GPA summary for a user.
func (v *ViewCache) SetGPA(ctx context.Context, userID string, s *query.GPASummaryDTO) {
	if err := v.cache.Set(ctx, GPAKey(userID), s, TTLGPACache); err != nil {
		v.log.Warn("gpa cache write failed", logger.UserID(userID), logger.Err(err))
	}
}

// InvalidateUser drops every cached view of a user. Called after each
// successful write command.
func (v *ViewCache) InvalidateUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := v.cache.Delete(ctx, OverviewKey(userID), GPAKey(userID)); err != nil {
		v.log.Warn("view cache invalidation failed", logger.UserID(userID), logger.Err(err))
	}
}
