package ranking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradearena/backend/internal/trade"
)

func seedStore(t *testing.T, records ...Ranking) *fakeRankingStore {
	t.Helper()
	store := newFakeRankingStore()
	for i := range records {
		require.NoError(t, store.Upsert(context.Background(), &records[i]))
	}
	return store
}

func TestParseTimeframe(t *testing.T) {
	assert.Equal(t, TimeframeWeekly, ParseTimeframe("weekly"))
	assert.Equal(t, TimeframeMonthly, ParseTimeframe("monthly"))
	assert.Equal(t, TimeframeAllTime, ParseTimeframe("all-time"))

	// Unknown selectors default to all-time instead of erroring
	assert.Equal(t, TimeframeAllTime, ParseTimeframe(""))
	assert.Equal(t, TimeframeAllTime, ParseTimeframe("yearly"))
	assert.Equal(t, TimeframeAllTime, ParseTimeframe("WEEKLY"))
}

func TestLeaderboard_SortedByTimeframe(t *testing.T) {
	ctx := context.Background()

	store := seedStore(t,
		Ranking{UserID: "u1", WeeklyPerf: 5, MonthlyPerf: 40, AllTimePerf: 10},
		Ranking{UserID: "u2", WeeklyPerf: 50, MonthlyPerf: 10, AllTimePerf: 30},
		Ranking{UserID: "u3", WeeklyPerf: -5, MonthlyPerf: 20, AllTimePerf: 20},
	)
	reader := NewReader(store, &fakeProfiles{}, testLogger())

	weekly, err := reader.Leaderboard(ctx, TimeframeWeekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u1", "u3"}, userOrder(weekly))

	monthly, err := reader.Leaderboard(ctx, TimeframeMonthly)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3", "u2"}, userOrder(monthly))

	allTime, err := reader.Leaderboard(ctx, TimeframeAllTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3", "u1"}, userOrder(allTime))

	// Ranks are 1-based positions in sort order
	for i, entry := range weekly {
		assert.Equal(t, i+1, entry.Rank)
	}

	// Performance column follows the selected timeframe
	assert.Equal(t, 50.0, weekly[0].Performance)
	assert.Equal(t, 40.0, monthly[0].Performance)
	assert.Equal(t, 30.0, allTime[0].Performance)
}

func TestLeaderboard_DeterministicTieBreak(t *testing.T) {
	ctx := context.Background()

	// Identical weekly performance: higher consistency wins, then user id
	store := seedStore(t,
		Ranking{UserID: "zed", WeeklyPerf: 10, ConsistencyScore: 50},
		Ranking{UserID: "amy", WeeklyPerf: 10, ConsistencyScore: 50},
		Ranking{UserID: "kim", WeeklyPerf: 10, ConsistencyScore: 90},
	)
	reader := NewReader(store, &fakeProfiles{}, testLogger())

	first, err := reader.Leaderboard(ctx, TimeframeWeekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"kim", "amy", "zed"}, userOrder(first))

	// Stable across repeated calls given unchanged input
	for i := 0; i < 5; i++ {
		again, err := reader.Leaderboard(ctx, TimeframeWeekly)
		require.NoError(t, err)
		assert.Equal(t, userOrder(first), userOrder(again))
	}
}

func TestLeaderboard_EnrichesProfiles(t *testing.T) {
	ctx := context.Background()

	store := seedStore(t,
		Ranking{UserID: "u1", WeeklyPerf: 10, WinRate: 75, ConsistencyScore: 60, Tier: TierGreenGold},
	)
	profiles := &fakeProfiles{profiles: map[string]trade.UserProfile{
		"u1": {UserID: "u1", Username: "trader1", DisplayName: "Trader One", AvatarURL: "https://cdn/avatar1.png"},
	}}
	reader := NewReader(store, profiles, testLogger())

	entries, err := reader.Leaderboard(ctx, TimeframeWeekly)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "trader1", entry.Username)
	assert.Equal(t, "Trader One", entry.DisplayName)
	assert.Equal(t, "https://cdn/avatar1.png", entry.AvatarURL)
	assert.Equal(t, 75.0, entry.WinRate)
	assert.Equal(t, 60.0, entry.ConsistencyScore)
	assert.Equal(t, TierGreenGold, entry.Tier)
}

func TestLeaderboard_EmptyStore(t *testing.T) {
	reader := NewReader(newFakeRankingStore(), &fakeProfiles{}, testLogger())

	entries, err := reader.Leaderboard(context.Background(), TimeframeAllTime)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUserRanking(t *testing.T) {
	ctx := context.Background()

	store := seedStore(t,
		Ranking{UserID: "u1", AllTimePerf: 10, WeeklyPerf: 2, MonthlyPerf: 5, WinRate: 60, ConsistencyScore: 45, Tier: TierSlippingSilver, WeeksAtMonarch: 0},
		Ranking{UserID: "u2", AllTimePerf: 30, Tier: TierMonarchTrader, WeeksAtMonarch: 2},
	)
	profiles := &fakeProfiles{profiles: map[string]trade.UserProfile{
		"u1": {UserID: "u1", Username: "trader1", DisplayName: "Trader One"},
	}}
	reader := NewReader(store, profiles, testLogger())

	view, err := reader.UserRanking(ctx, "u1")
	require.NoError(t, err)

	// u2 leads the all-time board, u1 is second
	assert.Equal(t, 2, view.Rank)
	assert.Equal(t, 2.0, view.WeeklyPerf)
	assert.Equal(t, 5.0, view.MonthlyPerf)
	assert.Equal(t, 10.0, view.AllTimePerf)
	assert.Equal(t, 60.0, view.WinRate)
	assert.Equal(t, 45.0, view.ConsistencyScore)
	assert.Equal(t, TierSlippingSilver, view.Tier)
	assert.Zero(t, view.WeeksAtMonarch)
	assert.Equal(t, "trader1", view.Username)
}

func TestUserRanking_NotFound(t *testing.T) {
	reader := NewReader(newFakeRankingStore(), &fakeProfiles{}, testLogger())

	_, err := reader.UserRanking(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrRankingNotFound)
}

func userOrder(entries []LeaderboardEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	return ids
}
