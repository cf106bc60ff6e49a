package ranking

import (
	"time"

	"github.com/tradearena/backend/internal/trade"
)

// Trailing window lengths for the periodic performance figures. All-time
// has no cutoff.
const (
	WeeklyWindow  = 7 * 24 * time.Hour
	MonthlyWindow = 30 * 24 * time.Hour
)

// Performance returns the percentage return on capital deployed for a
// set of trades: sum(profitLoss) / sum(entryPrice*quantity) * 100.
// An empty set and a zero-capital set both return 0; division by zero is
// a defined edge case here, not an error. Order of trades is irrelevant.
func Performance(trades []trade.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	var totalProfit, totalCapital float64
	for _, t := range trades {
		totalProfit += t.ProfitLoss
		totalCapital += t.CapitalDeployed()
	}

	if totalCapital <= 0 {
		return 0
	}

	return totalProfit / totalCapital * 100
}

// Within returns the trades executed at or after the cutoff. The window
// is inclusive of now and exclusive of anything older than the cutoff.
func Within(trades []trade.Trade, cutoff time.Time) []trade.Trade {
	windowed := make([]trade.Trade, 0, len(trades))
	for _, t := range trades {
		if !t.ExecutedAt.Before(cutoff) {
			windowed = append(windowed, t)
		}
	}
	return windowed
}
