package ranking

import (
	"errors"
	"time"
)

// ErrRankingNotFound is returned when a user has no ranking record yet.
// A user with zero trades never gets an auto-assigned record; the record
// appears only after the first recomputation pass that sees at least one
// trade for them.
var ErrRankingNotFound = errors.New("ranking not found")

// ErrPassInProgress is returned when a recomputation pass is requested
// while another pass holds the run lock.
var ErrPassInProgress = errors.New("ranking pass already in progress")

// Ranking is the persisted performance record, one per user. It is
// created lazily and mutated only by the update orchestrator.
type Ranking struct {
	UserID           string    `json:"userId"`
	WeeklyPerf       float64   `json:"weeklyPerformance"`
	MonthlyPerf      float64   `json:"monthlyPerformance"`
	AllTimePerf      float64   `json:"allTimePerformance"`
	WinRate          float64   `json:"winRate"`
	ConsistencyScore float64   `json:"consistencyScore"`
	Tier             Tier      `json:"rankTier"`
	WeeksAtMonarch   int       `json:"weeksAtMonarch"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// NewRanking returns the initial record for a user: lowest tier, empty
// hysteresis counter.
func NewRanking(userID string) *Ranking {
	return &Ranking{
		UserID: userID,
		Tier:   TierBetaHands,
	}
}

// Timeframe selects which performance window a leaderboard is sorted by
type Timeframe string

const (
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeAllTime Timeframe = "all-time"
)

// ParseTimeframe maps a selector string to a Timeframe. Unrecognized
// values fall back to all-time rather than erroring; the public API has
// always been permissive here and clients rely on it.
func ParseTimeframe(s string) Timeframe {
	switch s {
	case string(TimeframeWeekly):
		return TimeframeWeekly
	case string(TimeframeMonthly):
		return TimeframeMonthly
	default:
		return TimeframeAllTime
	}
}

// Performance returns the performance figure for the given timeframe.
func (r *Ranking) Performance(tf Timeframe) float64 {
	switch tf {
	case TimeframeWeekly:
		return r.WeeklyPerf
	case TimeframeMonthly:
		return r.MonthlyPerf
	default:
		return r.AllTimePerf
	}
}
