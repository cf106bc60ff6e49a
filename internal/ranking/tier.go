package ranking

// Tier is one of the ten ordered rank labels, Beta Hands lowest
type Tier string

const (
	TierBetaHands          Tier = "Beta Hands"
	TierSlippingSilver     Tier = "Slipping Silver"
	TierGreenGold          Tier = "Green Gold"
	TierProfitablePlatinum Tier = "Profitable Platinum"
	TierDiamondHands       Tier = "Diamond Hands"
	TierCapitalist         Tier = "Capitalist"
	TierMonarchTrader      Tier = "Monarch Trader"
	TierDivineMogul        Tier = "Divine Mogul"
	TierOmniscientOracle   Tier = "Omniscient Oracle"
	TierAscendedOne        Tier = "Ascended One"
)

// Consecutive-weeks-at-Monarch thresholds for the hysteresis tiers
const (
	weeksForDivineMogul      = 4
	weeksForOmniscientOracle = 8
	weeksForAscendedOne      = 12
)

// BaseTier maps weekly performance to a tier with no memory involved.
// The three tiers above Monarch Trader are never reachable from a single
// snapshot; they require consecutive qualifying weeks (see Classify).
func BaseTier(weeklyPerf float64) Tier {
	switch {
	case weeklyPerf >= 50:
		return TierMonarchTrader
	case weeklyPerf >= 30:
		return TierCapitalist
	case weeklyPerf >= 20:
		return TierDiamondHands
	case weeklyPerf >= 10:
		return TierProfitablePlatinum
	case weeklyPerf >= 5:
		return TierGreenGold
	case weeklyPerf >= 0:
		return TierSlippingSilver
	default:
		return TierBetaHands
	}
}

// Classify applies the hysteresis rule on top of the base classification.
// It is a pure function of this pass's weekly performance and the
// persisted counter from the prior pass.
//
// A Monarch-level week increments the counter; any other week resets it
// to zero. One off week drops the user out of every elevated tier
// immediately, even at 11 consecutive weeks.
func Classify(weeklyPerf float64, priorWeeksAtMonarch int) (Tier, int) {
	base := BaseTier(weeklyPerf)

	weeks := 0
	if base == TierMonarchTrader {
		weeks = priorWeeksAtMonarch + 1
	}

	switch {
	case weeks >= weeksForAscendedOne:
		return TierAscendedOne, weeks
	case weeks >= weeksForOmniscientOracle:
		return TierOmniscientOracle, weeks
	case weeks >= weeksForDivineMogul:
		return TierDivineMogul, weeks
	default:
		return base, weeks
	}
}

// TierInfo is a static catalog entry explaining one tier to users
type TierInfo struct {
	Tier        Tier   `json:"tier"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
	Description string `json:"description"`
}

// tierCatalog lists all ten tiers, highest first, matching the thresholds
// in BaseTier and Classify. Served verbatim by the tiers endpoint.
var tierCatalog = []TierInfo{
	{
		Tier:        TierAscendedOne,
		Icon:        "🌌",
		Requirement: "12 consecutive weeks at Monarch Trader",
		Description: "A being of pure financial mastery, untouchable in the markets.",
	},
	{
		Tier:        TierOmniscientOracle,
		Icon:        "🔱",
		Requirement: "8 consecutive weeks at Monarch Trader",
		Description: "Sees every move before it happens, always ahead of the game.",
	},
	{
		Tier:        TierDivineMogul,
		Icon:        "⚡",
		Requirement: "4 consecutive weeks at Monarch Trader",
		Description: "A supreme force in the financial world, unstoppable wealth creator.",
	},
	{
		Tier:        TierMonarchTrader,
		Icon:        "👑",
		Requirement: "+50% or more weekly performance",
		Description: "A market ruler, dominating with wisdom and strategy.",
	},
	{
		Tier:        TierCapitalist,
		Icon:        "💰",
		Requirement: "+30% to +49.99% weekly performance",
		Description: "A wealth-building machine, thriving on smart plays.",
	},
	{
		Tier:        TierDiamondHands,
		Icon:        "💎",
		Requirement: "+20% to +29.99% weekly performance",
		Description: "Thriving in volatility, fearless and composed.",
	},
	{
		Tier:        TierProfitablePlatinum,
		Icon:        "📈",
		Requirement: "+10% to +19.99% weekly performance",
		Description: "Consistently stacking gains, a strategic player.",
	},
	{
		Tier:        TierGreenGold,
		Icon:        "🟢",
		Requirement: "+5% to +9.99% weekly performance",
		Description: "Building momentum, trending upward.",
	},
	{
		Tier:        TierSlippingSilver,
		Icon:        "⚖️",
		Requirement: "0% to +4.99% weekly performance",
		Description: "Surviving but not thriving.",
	},
	{
		Tier:        TierBetaHands,
		Icon:        "🥉",
		Requirement: "-1% or worse weekly performance",
		Description: "Playing too safe, losing ground.",
	},
}

// TierCatalog returns the static tier reference data, highest tier first
func TierCatalog() []TierInfo {
	catalog := make([]TierInfo, len(tierCatalog))
	copy(catalog, tierCatalog)
	return catalog
}
