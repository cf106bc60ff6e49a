package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/tradearena/backend/internal/trade"
	"github.com/tradearena/backend/pkg/logger"
)

// ProfileDirectory resolves user display fields for leaderboard rows
type ProfileDirectory interface {
	ProfilesByID(ctx context.Context, userIDs []string) (map[string]trade.UserProfile, error)
}

// LeaderboardEntry is one row of the leaderboard, rank assigned on read
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"userId"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"displayName"`
	AvatarURL        string  `json:"avatarUrl,omitempty"`
	Performance      float64 `json:"performance"`
	WinRate          float64 `json:"winRate"`
	ConsistencyScore float64 `json:"consistencyScore"`
	Tier             Tier    `json:"rankTier"`
}

// UserRankingView is a single user's ranking enriched with their
// all-time leaderboard position and display fields.
type UserRankingView struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"userId"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"displayName"`
	AvatarURL        string  `json:"avatarUrl,omitempty"`
	WeeklyPerf       float64 `json:"weeklyPerformance"`
	MonthlyPerf      float64 `json:"monthlyPerformance"`
	AllTimePerf      float64 `json:"allTimePerformance"`
	WinRate          float64 `json:"winRate"`
	ConsistencyScore float64 `json:"consistencyScore"`
	Tier             Tier    `json:"rankTier"`
	WeeksAtMonarch   int     `json:"weeksAtMonarch"`
}

// Reader serves sorted, rank-annotated views over the persisted ranking
// records. Read-only; safe to call while a pass is in progress, with the
// usual eventual-consistency window across users.
type Reader struct {
	rankings RankingStore
	profiles ProfileDirectory
	logger   *logger.Logger
}

// NewReader creates a new leaderboard reader
func NewReader(rankings RankingStore, profiles ProfileDirectory, log *logger.Logger) *Reader {
	return &Reader{
		rankings: rankings,
		profiles: profiles,
		logger:   log,
	}
}

// sortRankings orders records descending by the selected performance
// field. Equal performance is broken by higher consistency score, then by
// ascending user id, so repeated reads over unchanged input return the
// same order regardless of what the store hands back.
func sortRankings(records []Ranking, tf Timeframe) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Performance(tf), records[j].Performance(tf)
		if pi != pj {
			return pi > pj
		}
		if records[i].ConsistencyScore != records[j].ConsistencyScore {
			return records[i].ConsistencyScore > records[j].ConsistencyScore
		}
		return records[i].UserID < records[j].UserID
	})
}

// Leaderboard returns all ranking records sorted for the given timeframe,
// each enriched with display fields and a 1-based rank.
func (r *Reader) Leaderboard(ctx context.Context, tf Timeframe) ([]LeaderboardEntry, error) {
	records, err := r.rankings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}

	sortRankings(records, tf)

	userIDs := make([]string, 0, len(records))
	for _, rec := range records {
		userIDs = append(userIDs, rec.UserID)
	}

	profiles, err := r.profiles.ProfilesByID(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch user profiles: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entry := LeaderboardEntry{
			Rank:             i + 1,
			UserID:           rec.UserID,
			Performance:      rec.Performance(tf),
			WinRate:          rec.WinRate,
			ConsistencyScore: rec.ConsistencyScore,
			Tier:             rec.Tier,
		}
		if p, ok := profiles[rec.UserID]; ok {
			entry.Username = p.Username
			entry.DisplayName = p.DisplayName
			entry.AvatarURL = p.AvatarURL
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// UserRanking returns one user's record with their all-time leaderboard
// position. Returns ErrRankingNotFound when no pass has produced a record
// for them yet; zero trades never auto-creates one.
func (r *Reader) UserRanking(ctx context.Context, userID string) (*UserRankingView, error) {
	record, err := r.rankings.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Position is always measured on the all-time board, like the
	// profile page shows it.
	all, err := r.rankings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}
	sortRankings(all, TimeframeAllTime)

	rank := 0
	for i, rec := range all {
		if rec.UserID == userID {
			rank = i + 1
			break
		}
	}

	view := &UserRankingView{
		Rank:             rank,
		UserID:           record.UserID,
		WeeklyPerf:       record.WeeklyPerf,
		MonthlyPerf:      record.MonthlyPerf,
		AllTimePerf:      record.AllTimePerf,
		WinRate:          record.WinRate,
		ConsistencyScore: record.ConsistencyScore,
		Tier:             record.Tier,
		WeeksAtMonarch:   record.WeeksAtMonarch,
	}

	profiles, err := r.profiles.ProfilesByID(ctx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user profile: %w", err)
	}
	if p, ok := profiles[userID]; ok {
		view.Username = p.Username
		view.DisplayName = p.DisplayName
		view.AvatarURL = p.AvatarURL
	}

	return view, nil
}
