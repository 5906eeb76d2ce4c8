package redis

import (
	"context"
	"time"

	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Cached key names for aggregated statistics read models.
const (
	keyLeaderboard = PrefixStats + "leaderboard"
	keyTopCreators = PrefixStats + "top_creators"
	keyWinRate     = PrefixStats + "winrate:"
)

// StatsCache caches the expensive cross-collection aggregations: the global
// leaderboard, the top creators board, and per-user win rate statistics.
//
// All entries are stored as JSON with a short TTL. The scheduler periodically
// rebuilds them, and event handlers invalidate them when a participation or a
// contest changes, so readers tolerate at most the TTL of staleness.
type StatsCache struct {
	cache *Cache
}

// NewStatsCache creates a StatsCache backed by the given general cache.
func NewStatsCache(cache *Cache) *StatsCache {
	return &StatsCache{cache: cache}
}

// ──────────────────────────────────────────────────────────────────────────────
// Leaderboard
// ──────────────────────────────────────────────────────────────────────────────

// SetLeaderboard stores the computed leaderboard rows.
func (s *StatsCache) SetLeaderboard(ctx context.Context, rows []stats.Row) error {
	return s.cache.Set(ctx, keyLeaderboard, rows, TTLLeaderboard)
}

// GetLeaderboard retrieves the cached leaderboard rows.
// Returns ErrCacheMiss if no leaderboard is cached.
func (s *StatsCache) GetLeaderboard(ctx context.Context) ([]stats.Row, error) {
	var rows []stats.Row
	if err := s.cache.Get(ctx, keyLeaderboard, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Top creators
// ──────────────────────────────────────────────────────────────────────────────

// SetTopCreators stores the computed top creators list.
func (s *StatsCache) SetTopCreators(ctx context.Context, rows []stats.TopCreator) error {
	return s.cache.Set(ctx, keyTopCreators, rows, TTLTopCreators)
}

// GetTopCreators retrieves the cached top creators rows.
// Returns ErrCacheMiss if no top creators list is cached.
func (s *StatsCache) GetTopCreators(ctx context.Context) ([]stats.TopCreator, error) {
	var rows []stats.TopCreator
	if err := s.cache.Get(ctx, keyTopCreators, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Win rate
// ──────────────────────────────────────────────────────────────────────────────

// SetWinRate stores per-user win rate statistics keyed by email.
func (s *StatsCache) SetWinRate(ctx context.Context, email string, wr stats.WinRate) error {
	if email == "" {
		return ErrCacheKeyEmpty
	}
	return s.cache.Set(ctx, keyWinRate+email, wr, TTLWinRate)
}

// GetWinRate retrieves cached win rate statistics for the given email.
// Returns ErrCacheMiss if nothing is cached for this user.
func (s *StatsCache) GetWinRate(ctx context.Context, email string) (stats.WinRate, error) {
	var wr stats.WinRate
	if err := s.cache.Get(ctx, keyWinRate+email, &wr); err != nil {
		return stats.WinRate{}, err
	}
	return wr, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Invalidation
// ──────────────────────────────────────────────────────────────────────────────

// Invalidate drops every cached statistics read model. Called when a
// participation or contest write makes the aggregates stale.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, keyLeaderboard, keyTopCreators); err != nil {
		return err
	}
	return s.cache.DeleteByPattern(ctx, keyWinRate+"*")
}

// InvalidateWinRate drops the cached win rate for a single user.
func (s *StatsCache) InvalidateWinRate(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	return s.cache.Delete(ctx, keyWinRate+email)
}

// Age returns how long ago the leaderboard was last rebuilt, based on the
// remaining TTL of its key. Returns false when nothing is cached.
func (s *StatsCache) Age(ctx context.Context) (time.Duration, bool, error) {
	ttl, err := s.cache.Client().TTL(ctx, keyLeaderboard).Result()
	if err != nil {
		return 0, false, err
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return TTLLeaderboard - ttl, true, nil
}
