package trade

import (
	"fmt"
	"time"
)

// Side is the direction of a trade
type Side string

const (
	// SideBuy is a long position: profits when exit > entry
	SideBuy Side = "BUY"
	// SideSell is a short position: profits when exit < entry
	SideSell Side = "SELL"
)

// AssetClass categorizes the traded instrument
type AssetClass string

const (
	AssetStocks  AssetClass = "Stocks"
	AssetCrypto  AssetClass = "Crypto"
	AssetForex   AssetClass = "Forex"
	AssetOptions AssetClass = "Options"
	AssetFutures AssetClass = "Futures"
)

// Trade is a single closed trade as recorded in the journal.
// ProfitLoss and ProfitLossPct are derived once at creation and are
// treated as immutable facts by the ranking engine.
type Trade struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Side          Side       `json:"side"`
	AssetClass    AssetClass `json:"assetClass"`
	Symbol        string     `json:"symbol"`
	EntryPrice    float64    `json:"entryPrice"`
	ExitPrice     float64    `json:"exitPrice"`
	Quantity      float64    `json:"quantity"`
	StopLoss      *float64   `json:"stopLoss,omitempty"`
	TakeProfit    *float64   `json:"takeProfit,omitempty"`
	Leverage      float64    `json:"leverage"`
	ProfitLoss    float64    `json:"profitLoss"`
	ProfitLossPct float64    `json:"profitLossPct"`
	ExecutedAt    time.Time  `json:"executedAt"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CapitalDeployed is the notional committed to the trade, before leverage.
func (t *Trade) CapitalDeployed() float64 {
	return t.EntryPrice * t.Quantity
}

// IsWin reports whether the trade closed with a profit
func (t *Trade) IsWin() bool {
	return t.ProfitLoss > 0
}

// DerivePnL computes ProfitLoss and ProfitLossPct from the price delta,
// scaled by leverage. Shorts profit when exit < entry. Called once when
// the trade is stored; the sign is then consistent with Side by
// construction.
func (t *Trade) DerivePnL() {
	if t.Leverage < 1 {
		t.Leverage = 1
	}

	invested := t.EntryPrice * t.Quantity
	returned := t.ExitPrice * t.Quantity

	if t.Side == SideSell {
		t.ProfitLoss = (invested - returned) * t.Leverage
	} else {
		t.ProfitLoss = (returned - invested) * t.Leverage
	}

	if t.EntryPrice != 0 {
		if t.Side == SideSell {
			t.ProfitLossPct = (t.EntryPrice - t.ExitPrice) / t.EntryPrice * 100 * t.Leverage
		} else {
			t.ProfitLossPct = (t.ExitPrice - t.EntryPrice) / t.EntryPrice * 100 * t.Leverage
		}
	}
}

// Validate checks structural invariants before a trade is stored
func (t *Trade) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("trade user id is required")
	}
	if t.Side != SideBuy && t.Side != SideSell {
		return fmt.Errorf("invalid trade side: %q", t.Side)
	}
	if t.EntryPrice <= 0 {
		return fmt.Errorf("entry price must be positive, got %v", t.EntryPrice)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %v", t.Quantity)
	}
	if t.Leverage < 1 {
		return fmt.Errorf("leverage must be at least 1, got %v", t.Leverage)
	}
	if t.ExecutedAt.IsZero() {
		return fmt.Errorf("executed at timestamp is required")
	}
	return nil
}
