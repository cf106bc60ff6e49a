package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradearena/backend/internal/ranking"
	"github.com/tradearena/backend/internal/trade"
	"github.com/tradearena/backend/pkg/config"
	"github.com/tradearena/backend/pkg/logger"
	"github.com/tradearena/backend/pkg/redis"
)

// In-memory collaborators for handler tests

type memDirectory struct{ ids []string }

func (d *memDirectory) ListUserIDs(ctx context.Context) ([]string, error) {
	return d.ids, nil
}

type memTradeStore struct{ trades map[string][]trade.Trade }

func (s *memTradeStore) TradesByUser(ctx context.Context, userID string) ([]trade.Trade, error) {
	return s.trades[userID], nil
}

type memRankingStore struct{ records map[string]ranking.Ranking }

func (s *memRankingStore) ByUser(ctx context.Context, userID string) (*ranking.Ranking, error) {
	rec, ok := s.records[userID]
	if !ok {
		return nil, ranking.ErrRankingNotFound
	}
	return &rec, nil
}

func (s *memRankingStore) Upsert(ctx context.Context, r *ranking.Ranking) error {
	s.records[r.UserID] = *r
	return nil
}

func (s *memRankingStore) All(ctx context.Context) ([]ranking.Ranking, error) {
	all := make([]ranking.Ranking, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	return all, nil
}

type memProfiles struct{ profiles map[string]trade.UserProfile }

func (p *memProfiles) ProfilesByID(ctx context.Context, userIDs []string) (map[string]trade.UserProfile, error) {
	out := make(map[string]trade.UserProfile)
	for _, id := range userIDs {
		if prof, ok := p.profiles[id]; ok {
			out[id] = prof
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T, records map[string]ranking.Ranking, trades map[string][]trade.Trade) *RankingHandler {
	t.Helper()

	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})

	store := &memRankingStore{records: records}
	profiles := &memProfiles{profiles: map[string]trade.UserProfile{
		"u1": {UserID: "u1", Username: "trader1", DisplayName: "Trader One"},
		"u2": {UserID: "u2", Username: "trader2", DisplayName: "Trader Two"},
	}}

	reader := ranking.NewReader(store, profiles, log)
	orchestrator := ranking.NewOrchestrator(
		&memDirectory{ids: []string{"u1", "u2"}},
		&memTradeStore{trades: trades},
		store,
		log,
	)

	// Disabled Redis: cache calls become no-ops
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	cache := redis.NewCache(client, "test")

	return NewRankingHandler(reader, orchestrator, cache, time.Minute, log)
}

func newTestRouter(h *RankingHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/rankings/leaderboard", h.GetLeaderboard).Methods("GET")
	r.HandleFunc("/api/rankings/tiers", h.GetTiers).Methods("GET")
	r.HandleFunc("/api/rankings/user/{userId}", h.GetUserRanking).Methods("GET")
	r.HandleFunc("/api/rankings/update", h.UpdateRankings).Methods("POST")
	return r
}

func TestGetLeaderboard(t *testing.T) {
	h := newTestHandler(t, map[string]ranking.Ranking{
		"u1": {UserID: "u1", WeeklyPerf: 5, AllTimePerf: 20, Tier: ranking.TierGreenGold},
		"u2": {UserID: "u2", WeeklyPerf: 55, AllTimePerf: 10, Tier: ranking.TierMonarchTrader},
	}, nil)
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/api/rankings/leaderboard?timeframe=weekly", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []ranking.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, "trader2", entries[0].Username)
	assert.Equal(t, 55.0, entries[0].Performance)
	assert.Equal(t, "u1", entries[1].UserID)
}

func TestGetLeaderboard_UnknownTimeframeDefaultsToAllTime(t *testing.T) {
	h := newTestHandler(t, map[string]ranking.Ranking{
		"u1": {UserID: "u1", WeeklyPerf: 5, AllTimePerf: 20},
		"u2": {UserID: "u2", WeeklyPerf: 55, AllTimePerf: 10},
	}, nil)
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/api/rankings/leaderboard?timeframe=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []ranking.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	// Sorted by all-time performance, not weekly
	assert.Equal(t, "u1", entries[0].UserID)
}

func TestGetUserRanking(t *testing.T) {
	h := newTestHandler(t, map[string]ranking.Ranking{
		"u1": {UserID: "u1", AllTimePerf: 20, WeeksAtMonarch: 3, Tier: ranking.TierMonarchTrader},
	}, nil)
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/api/rankings/user/u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view ranking.UserRankingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Rank)
	assert.Equal(t, 3, view.WeeksAtMonarch)
	assert.Equal(t, ranking.TierMonarchTrader, view.Tier)
}

func TestGetUserRanking_NotFound(t *testing.T) {
	h := newTestHandler(t, map[string]ranking.Ranking{}, nil)
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/api/rankings/user/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTiers(t *testing.T) {
	h := newTestHandler(t, map[string]ranking.Ranking{}, nil)
	router := newTestRouter(h)

	req := httptest.NewRequest("GET", "/api/rankings/tiers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tiers []ranking.TierInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tiers))
	require.Len(t, tiers, 10)
	assert.Equal(t, ranking.TierAscendedOne, tiers[0].Tier)
	assert.Equal(t, ranking.TierBetaHands, tiers[9].Tier)
}

func TestUpdateRankings(t *testing.T) {
	now := time.Now()
	records := map[string]ranking.Ranking{}
	trades := map[string][]trade.Trade{
		"u1": {{
			Side:       trade.SideBuy,
			EntryPrice: 1000,
			Quantity:   1,
			Leverage:   1,
			ProfitLoss: 100,
			ExecutedAt: now.Add(-time.Hour),
		}},
		// u2 has no trades and is skipped
	}

	h := newTestHandler(t, records, trades)
	router := newTestRouter(h)

	req := httptest.NewRequest("POST", "/api/rankings/update", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result ranking.PassResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.Skipped)

	// The pass created u1's record
	assert.Contains(t, records, "u1")
	assert.NotContains(t, records, "u2")
}
