package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tradearena/backend/internal/ranking"
	"github.com/tradearena/backend/pkg/logger"
	"github.com/tradearena/backend/pkg/redis"
)

// RankingHandler handles ranking-related API endpoints
type RankingHandler struct {
	reader       *ranking.Reader
	orchestrator *ranking.Orchestrator
	cache        *redis.Cache
	cacheTTL     time.Duration
	logger       *logger.Logger
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(
	reader *ranking.Reader,
	orchestrator *ranking.Orchestrator,
	cache *redis.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *RankingHandler {
	return &RankingHandler{
		reader:       reader,
		orchestrator: orchestrator,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       log,
	}
}

// GetLeaderboard returns the ranked leaderboard for a timeframe.
// GET /api/rankings/leaderboard?timeframe=weekly|monthly|all-time
// An unrecognized timeframe falls back to all-time rather than erroring.
func (h *RankingHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tf := ranking.ParseTimeframe(r.URL.Query().Get("timeframe"))

	// Serve from cache when fresh. The leaderboard may lag an
	// in-progress pass by the TTL; that window is accepted.
	cacheKey := redis.LeaderboardKey(string(tf))
	var cached []ranking.LeaderboardEntry
	if found, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	entries, err := h.reader.Leaderboard(ctx, tf)
	if err != nil {
		h.logger.WithError(err).WithField("timeframe", tf).Error("Failed to build leaderboard")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	if err := h.cache.Set(ctx, cacheKey, entries, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache leaderboard")
	}

	respondJSON(w, http.StatusOK, entries)
}

// GetUserRanking returns a single user's ranking record and position.
// GET /api/rankings/user/{userId}
func (h *RankingHandler) GetUserRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mux.Vars(r)["userId"]

	view, err := h.reader.UserRanking(ctx, userID)
	if err != nil {
		if errors.Is(err, ranking.ErrRankingNotFound) {
			respondError(w, http.StatusNotFound, "Ranking not found")
			return
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to get user ranking")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve user ranking")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// GetTiers returns the static rank tier catalog, highest tier first.
// GET /api/rankings/tiers
func (h *RankingHandler) GetTiers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ranking.TierCatalog())
}

// UpdateRankings triggers one full recomputation pass.
// POST /api/rankings/update
func (h *RankingHandler) UpdateRankings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.orchestrator.Run(ctx)
	if err != nil {
		if errors.Is(err, ranking.ErrPassInProgress) {
			respondError(w, http.StatusConflict, "A ranking pass is already in progress")
			return
		}
		h.logger.WithError(err).Error("Ranking pass failed")
		respondError(w, http.StatusInternalServerError, "Failed to update rankings")
		return
	}

	// Drop stale leaderboards so the next read sees the new pass
	h.invalidateLeaderboards(r)

	respondJSON(w, http.StatusOK, result)
}

// invalidateLeaderboards clears all cached leaderboard timeframes
func (h *RankingHandler) invalidateLeaderboards(r *http.Request) {
	for _, tf := range []ranking.Timeframe{
		ranking.TimeframeWeekly,
		ranking.TimeframeMonthly,
		ranking.TimeframeAllTime,
	} {
		if err := h.cache.Delete(r.Context(), redis.LeaderboardKey(string(tf))); err != nil {
			h.logger.WithError(err).WithField("timeframe", tf).Warn("Failed to invalidate leaderboard cache")
		}
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
