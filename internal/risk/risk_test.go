package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickscode/Solara-Beta/internal/models"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  string
	}{
		{"zero score", 0, LevelExcellent},
		{"boundary excellent", 1, LevelExcellent},
		{"boundary good", 5, LevelGood},
		{"boundary moderate", 10, LevelModerate},
		{"boundary high", 25, LevelHigh},
		{"above high", 26, LevelVeryHigh},
		{"sentinel", models.UnknownSecurityScore, LevelVeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.score))
		})
	}
}

func healthyStats() *models.TokenStats {
	return &models.TokenStats{
		TokenMarketSnapshot: models.TokenMarketSnapshot{
			Liquidity:      2_000_000,
			MarketCap:      20_000_000,
			PriceChange24h: 0,
		},
		Security:    models.SecurityReport{Score: 1},
		LPLockedPct: 100,
	}
}

func TestScore_RuggedDominates(t *testing.T) {
	stats := healthyStats()
	stats.Security.Rugged = true

	// Perfect liquidity, market cap and LP lock must not soften a rug.
	assert.Equal(t, 1.0, Score(stats))
}

func TestScore_HealthyToken(t *testing.T) {
	// Only the audit component contributes for a deep, locked, calm token.
	assert.InDelta(t, 0.05, Score(healthyStats()), 1e-9)
}

func TestScore_MonotonicInAuditScore(t *testing.T) {
	var prev float64
	for _, auditScore := range []int{0, 3, 8, 50, models.UnknownSecurityScore} {
		stats := healthyStats()
		stats.Security.Score = auditScore
		score := Score(stats)
		assert.GreaterOrEqual(t, score, prev, "audit score %d", auditScore)
		prev = score
	}
}

func TestScore_Bounds(t *testing.T) {
	worst := &models.TokenStats{
		TokenMarketSnapshot: models.TokenMarketSnapshot{
			Liquidity:      0,
			MarketCap:      0,
			PriceChange24h: -500,
		},
		Security:    models.SecurityReport{Score: models.UnknownSecurityScore},
		LPLockedPct: 0,
	}
	score := Score(worst)
	assert.LessOrEqual(t, score, 1.0)
	assert.GreaterOrEqual(t, score, 0.0)

	// All risk factors maxed except the audit step, which caps at 0.9.
	assert.InDelta(t, 0.9*0.5+0.2+0.15+0.1+0.05, score, 1e-9)
}
