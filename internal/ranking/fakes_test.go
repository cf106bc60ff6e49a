package ranking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tradearena/backend/internal/trade"
	"github.com/tradearena/backend/pkg/config"
	"github.com/tradearena/backend/pkg/logger"
)

// testLogger returns a quiet logger for tests
func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

// fakeDirectory is a fixed user set
type fakeDirectory struct {
	ids []string
	err error
}

func (d *fakeDirectory) ListUserIDs(ctx context.Context) ([]string, error) {
	return d.ids, d.err
}

// fakeTradeStore serves canned trades per user, with optional per-user failures
type fakeTradeStore struct {
	trades map[string][]trade.Trade
	fail   map[string]bool
}

func (s *fakeTradeStore) TradesByUser(ctx context.Context, userID string) ([]trade.Trade, error) {
	if s.fail[userID] {
		return nil, errors.New("trade store unavailable")
	}
	return s.trades[userID], nil
}

// fakeRankingStore is an in-memory keyed store
type fakeRankingStore struct {
	mu      sync.Mutex
	records map[string]Ranking
	failAll bool
}

func newFakeRankingStore() *fakeRankingStore {
	return &fakeRankingStore{records: make(map[string]Ranking)}
}

func (s *fakeRankingStore) ByUser(ctx context.Context, userID string) (*Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, ErrRankingNotFound
	}
	c := rec
	return &c, nil
}

func (s *fakeRankingStore) Upsert(ctx context.Context, r *Ranking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.UserID] = *r
	return nil
}

func (s *fakeRankingStore) All(ctx context.Context) ([]Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, errors.New("ranking store unavailable")
	}
	all := make([]Ranking, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	return all, nil
}

// fakeProfiles resolves display fields from a map
type fakeProfiles struct {
	profiles map[string]trade.UserProfile
}

func (p *fakeProfiles) ProfilesByID(ctx context.Context, userIDs []string) (map[string]trade.UserProfile, error) {
	out := make(map[string]trade.UserProfile)
	for _, id := range userIDs {
		if prof, ok := p.profiles[id]; ok {
			out[id] = prof
		}
	}
	return out, nil
}

// fakeLock is a RunLock that can be pre-held
type fakeLock struct {
	mu   sync.Mutex
	held bool
}

func (l *fakeLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

// win and loss build minimal trades for calculator tests
func win(at time.Time, profit, capital float64) trade.Trade {
	return trade.Trade{
		Side:       trade.SideBuy,
		EntryPrice: capital,
		Quantity:   1,
		Leverage:   1,
		ProfitLoss: profit,
		ExecutedAt: at,
	}
}

func loss(at time.Time, amount, capital float64) trade.Trade {
	return trade.Trade{
		Side:       trade.SideBuy,
		EntryPrice: capital,
		Quantity:   1,
		Leverage:   1,
		ProfitLoss: -amount,
		ExecutedAt: at,
	}
}
