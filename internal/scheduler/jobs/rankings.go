package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradearena/backend/internal/ranking"
	"github.com/tradearena/backend/pkg/logger"
	"github.com/tradearena/backend/pkg/redis"
)

// RankingsJob recomputes every user's ranking once per week. One pass per
// tier-qualifying period: weeksAtMonarch counts these scheduled passes.
type RankingsJob struct {
	orchestrator *ranking.Orchestrator
	cache        *redis.Cache
	logger       *logger.Logger
}

// NewRankingsJob creates a new rankings job
func NewRankingsJob(orchestrator *ranking.Orchestrator, cache *redis.Cache, log *logger.Logger) *RankingsJob {
	return &RankingsJob{
		orchestrator: orchestrator,
		cache:        cache,
		logger:       log,
	}
}

// Name returns the job name
func (j *RankingsJob) Name() string {
	return "ranking_recompute"
}

// Schedule returns the cron schedule (Mondays at 00:05 UTC, with seconds)
func (j *RankingsJob) Schedule() string {
	return "0 5 0 * * 1"
}

// Run executes one ranking recomputation pass
func (j *RankingsJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled ranking recomputation")

	result, err := j.orchestrator.Run(ctx)
	if err != nil {
		// A manually-triggered pass already running is not a failure
		// worth retrying; the next scheduled run will catch up.
		if errors.Is(err, ranking.ErrPassInProgress) {
			j.logger.Warn("Skipping scheduled pass, another pass is in progress")
			return nil
		}
		return fmt.Errorf("ranking pass: %w", err)
	}

	// Drop cached leaderboards so readers see the new pass
	for _, tf := range []ranking.Timeframe{
		ranking.TimeframeWeekly,
		ranking.TimeframeMonthly,
		ranking.TimeframeAllTime,
	} {
		if err := j.cache.Delete(ctx, redis.LeaderboardKey(string(tf))); err != nil {
			j.logger.WithError(err).WithField("timeframe", tf).Warn("Failed to invalidate leaderboard cache")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"processed": result.Processed,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
		"duration":  result.Duration,
	}).Info("Scheduled ranking recomputation completed")

	return nil
}
