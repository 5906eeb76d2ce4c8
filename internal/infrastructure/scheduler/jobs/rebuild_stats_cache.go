// Package jobs contains the background jobs run by the scheduler.
package jobs

import (
	"context"

	"github.com/faisal-shohag/contesthub-server/internal/domain/contest"
	"github.com/faisal-shohag/contesthub-server/internal/domain/participation"
	"github.com/faisal-shohag/contesthub-server/internal/domain/shared"
	"github.com/faisal-shohag/contesthub-server/internal/domain/stats"
	"github.com/faisal-shohag/contesthub-server/internal/domain/user"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/projections"
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD STATS CACHE JOB
// Periodically recomputes the leaderboard and top creators from a full
// snapshot of the three collections and refreshes the cache. Queries keep
// answering from the old cache until the refresh lands.
// ══════════════════════════════════════════════════════════════════════════════

// StatsWriter is the cache contract the job writes to.
type StatsWriter interface {
	SetLeaderboard(ctx context.Context, rows []stats.Row) error
	SetTopCreators(ctx context.Context, rows []stats.TopCreator) error
}

// RebuildStatsCacheJob recomputes cached statistics read models.
type RebuildStatsCacheJob struct {
	contestRepo       contest.Repository
	userRepo          user.Repository
	participationRepo participation.Repository
	cache             StatsWriter
	publisher         shared.EventPublisher
	log               *logger.Logger
}

// NewRebuildStatsCacheJob creates the job.
func NewRebuildStatsCacheJob(
	contestRepo contest.Repository,
	userRepo user.Repository,
	participationRepo participation.Repository,
	cache StatsWriter,
	publisher shared.EventPublisher,
	log *logger.Logger,
) *RebuildStatsCacheJob {
	return &RebuildStatsCacheJob{
		contestRepo:       contestRepo,
		userRepo:          userRepo,
		participationRepo: participationRepo,
		cache:             cache,
		publisher:         publisher,
		log:               log,
	}
}

// Name implements scheduler.Job.
func (j *RebuildStatsCacheJob) Name() string { return "rebuild_stats_cache" }

// Description implements scheduler.Job.
func (j *RebuildStatsCacheJob) Description() string {
	return "Recomputes the leaderboard and top creators and refreshes the cache"
}

// Run implements scheduler.Job.
func (j *RebuildStatsCacheJob) Run(ctx context.Context) error {
	users, err := j.userRepo.FindAll(ctx)
	if err != nil {
		return shared.WrapError("jobs", "RebuildStatsCache", shared.ErrStorage, "failed to load users", err)
	}
	contests, err := j.contestRepo.Find(ctx, contest.Filter{})
	if err != nil {
		return shared.WrapError("jobs", "RebuildStatsCache", shared.ErrStorage, "failed to load contests", err)
	}
	parts, err := j.participationRepo.FindAll(ctx)
	if err != nil {
		return shared.WrapError("jobs", "RebuildStatsCache", shared.ErrStorage, "failed to load participations", err)
	}

	rows := stats.Leaderboard(users, parts)
	if err := j.cache.SetLeaderboard(ctx, rows); err != nil {
		return err
	}

	idx := projections.NewIndex(projections.Snapshot{Contests: contests})
	creators := stats.TopCreators(users, idx.CreatorEmailsByContest(), parts, stats.DefaultTopCreatorsLimit)
	if err := j.cache.SetTopCreators(ctx, creators); err != nil {
		return err
	}

	if j.publisher != nil {
		_ = j.publisher.Publish(shared.NewStatsCacheRebuiltEvent(len(rows)))
	}

	j.log.Info("stats cache rebuilt",
		logger.Int("leaderboard_rows", len(rows)),
		logger.Int("top_creators", len(creators)),
	)
	return nil
}
