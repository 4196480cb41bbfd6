package risk

import (
	"math"

	"github.com/rickscode/Solara-Beta/internal/models"
)

// Qualitative risk levels derived from the raw audit score.
const (
	LevelExcellent = "EXCELLENT"
	LevelGood      = "GOOD"
	LevelModerate  = "MODERATE"
	LevelHigh      = "HIGH"
	LevelVeryHigh  = "VERY_HIGH"
)

// Fixed factor weights. These are contract constants calibrated against the
// audit source's conventions; do not retune them.
const (
	weightRugcheck   = 0.5
	weightLiquidity  = 0.2
	weightMarketCap  = 0.15
	weightVolatility = 0.1
	weightLPLock     = 0.05

	liquidityFloor  = 1_000_000
	marketCapFloor  = 10_000_000
	volatilityScale = 50
	lpLockTarget    = 80
)

// Level maps a raw audit score to a qualitative risk level. Lower scores are
// safer; the sentinel 999 always lands in VERY_HIGH.
func Level(score int) string {
	switch {
	case score <= 1:
		return LevelExcellent
	case score <= 5:
		return LevelGood
	case score <= 10:
		return LevelModerate
	case score <= 25:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Score computes the normalized risk score in [0,1] from the merged token
// stats. Monotonically non-decreasing in the raw audit score. A rugged token
// scores 1.0 outright, no other factor can soften it.
func Score(stats *models.TokenStats) float64 {
	if stats.Security.Rugged {
		return 1.0
	}
	rugRisk := auditRisk(stats.Security.Score, false)

	liquidityRisk := math.Max(0, 1-stats.Liquidity/liquidityFloor)
	marketCapRisk := math.Max(0, 1-stats.MarketCap/marketCapFloor)
	volatilityRisk := math.Min(1, math.Abs(stats.PriceChange24h)/volatilityScale)
	lpRisk := math.Max(0, 1-stats.LPLockedPct/lpLockTarget)

	score := rugRisk*weightRugcheck +
		liquidityRisk*weightLiquidity +
		marketCapRisk*weightMarketCap +
		volatilityRisk*weightVolatility +
		lpRisk*weightLPLock

	return math.Min(1, math.Max(0, score))
}

func auditRisk(score int, rugged bool) float64 {
	switch {
	case rugged:
		return 1.0
	case score <= 1:
		return 0.1
	case score <= 5:
		return 0.3
	case score <= 10:
		return 0.6
	default:
		return 0.9
	}
}
