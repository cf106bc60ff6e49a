package ranking

import (
	"sort"

	"github.com/tradearena/backend/internal/trade"
)

// Consistency score weighting. The exact coefficients are load-bearing:
// persisted scores and the UI depend on them.
const (
	minTradesForConsistency = 5
	winRateWeight           = 0.7
	streakWeight            = 3.0
	consistencyCap          = 100.0
)

// WinRate returns the share of winning trades as a percentage (0-100)
func WinRate(trades []trade.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	wins := 0
	for _, t := range trades {
		if t.IsWin() {
			wins++
		}
	}

	return float64(wins) / float64(len(trades)) * 100
}

// Consistency scores a full trade history in [0, 100], rewarding both a
// high win rate and long same-outcome streaks:
//
//	min(100, winRate*0.7 + maxStreak*3)
//
// Fewer than 5 trades is an insufficient sample and scores 0. Trades are
// sorted ascending by execution time with a stable sort, so trades
// sharing a timestamp keep their insertion order; that order decides
// which streak they extend.
func Consistency(trades []trade.Trade) float64 {
	if len(trades) < minTradesForConsistency {
		return 0
	}

	sorted := make([]trade.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAt.Before(sorted[j].ExecutedAt)
	})

	maxStreak := longestStreak(sorted)
	score := WinRate(trades)*winRateWeight + float64(maxStreak)*streakWeight

	if score > consistencyCap {
		return consistencyCap
	}
	return score
}

// longestStreak walks time-ordered trades and returns the longest run of
// consecutive trades with the same win/loss classification.
func longestStreak(sorted []trade.Trade) int {
	current := 0
	max := 0
	var prevWin bool

	for i, t := range sorted {
		win := t.IsWin()
		if i == 0 || win != prevWin {
			current = 1
		} else {
			current++
		}
		if current > max {
			max = current
		}
		prevWin = win
	}

	return max
}
