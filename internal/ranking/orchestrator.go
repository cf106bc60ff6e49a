package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tradearena/backend/internal/trade"
	"github.com/tradearena/backend/pkg/logger"
)

// UserDirectory lists the users whose rankings are recomputed. Injected
// so tests can run a pass over a fixed small user set.
type UserDirectory interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// TradeStore is the read-only view of the trade journal
type TradeStore interface {
	TradesByUser(ctx context.Context, userID string) ([]trade.Trade, error)
}

// RankingStore persists ranking records with keyed find/upsert semantics
type RankingStore interface {
	// ByUser returns ErrRankingNotFound when the user has no record yet
	ByUser(ctx context.Context, userID string) (*Ranking, error)
	Upsert(ctx context.Context, r *Ranking) error
	All(ctx context.Context) ([]Ranking, error)
}

// RunLock serializes recomputation passes. At most one pass may run at a
// time; concurrent writers to the same ranking record are never allowed.
type RunLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

const passLockName = "ranking_pass"

// PassResult summarizes one recomputation pass
type PassResult struct {
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Orchestrator recomputes rankings for every user in discrete batch
// passes. Each user's computation reads only that user's trades, so users
// are processed by a bounded worker pool with no shared mutable state
// beyond the per-pass counters.
type Orchestrator struct {
	users    UserDirectory
	trades   TradeStore
	rankings RankingStore
	lock     RunLock
	logger   *logger.Logger

	workers int
	lockTTL time.Duration
	now     func() time.Time
}

// OrchestratorOption customizes an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithWorkers sets the number of users processed concurrently
func WithWorkers(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRunLock guards the pass with a cross-process run lock
func WithRunLock(lock RunLock, ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.lock = lock
		o.lockTTL = ttl
	}
}

// WithClock overrides the wall clock, for tests
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a new ranking update orchestrator
func NewOrchestrator(users UserDirectory, trades TradeStore, rankings RankingStore, log *logger.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		users:    users,
		trades:   trades,
		rankings: rankings,
		logger:   log,
		workers:  4,
		lockTTL:  10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one full recomputation pass. A failure on a single user is
// logged and counted without aborting the batch; only a store failure
// while listing users fails the pass as a whole. Returns
// ErrPassInProgress when another pass holds the run lock.
func (o *Orchestrator) Run(ctx context.Context) (*PassResult, error) {
	if o.lock != nil {
		acquired, err := o.lock.Acquire(ctx, passLockName, o.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire pass lock: %w", err)
		}
		if !acquired {
			return nil, ErrPassInProgress
		}
		defer func() {
			if err := o.lock.Release(ctx, passLockName); err != nil {
				o.logger.WithError(err).Warn("Failed to release pass lock")
			}
		}()
	}

	startedAt := o.now()

	userIDs, err := o.users.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"users":   len(userIDs),
		"workers": o.workers,
	}).Info("Ranking pass started")

	result := &PassResult{StartedAt: startedAt}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.workers)

	for _, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}

		go func(userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			updated, err := o.processUser(ctx, userID, startedAt)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				o.logger.WithError(err).WithField("user_id", userID).Warn("Failed to update ranking for user")
			case updated:
				result.Processed++
			default:
				result.Skipped++
			}
		}(userID)
	}

	wg.Wait()

	result.Duration = o.now().Sub(startedAt)

	o.logger.WithFields(map[string]interface{}{
		"processed": result.Processed,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
		"duration":  result.Duration,
	}).Info("Ranking pass completed")

	return result, nil
}

// processUser recomputes and upserts one user's ranking. Returns false
// when the user has no trades; an existing record is then left untouched
// rather than zeroed out. Nothing is written on error.
func (o *Orchestrator) processUser(ctx context.Context, userID string, passStart time.Time) (bool, error) {
	trades, err := o.trades.TradesByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("fetch trades: %w", err)
	}

	if len(trades) == 0 {
		return false, nil
	}

	prior, err := o.rankings.ByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrRankingNotFound) {
			return false, fmt.Errorf("fetch prior ranking: %w", err)
		}
		prior = NewRanking(userID)
	}

	weekly := Performance(Within(trades, passStart.Add(-WeeklyWindow)))
	monthly := Performance(Within(trades, passStart.Add(-MonthlyWindow)))
	allTime := Performance(trades)

	tier, weeks := Classify(weekly, prior.WeeksAtMonarch)

	record := &Ranking{
		UserID:           userID,
		WeeklyPerf:       weekly,
		MonthlyPerf:      monthly,
		AllTimePerf:      allTime,
		WinRate:          WinRate(trades),
		ConsistencyScore: Consistency(trades),
		Tier:             tier,
		WeeksAtMonarch:   weeks,
		LastUpdated:      passStart,
	}

	if err := o.rankings.Upsert(ctx, record); err != nil {
		return false, fmt.Errorf("upsert ranking: %w", err)
	}

	return true, nil
}
