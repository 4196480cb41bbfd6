package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickscode/Solara-Beta/internal/models"
)

type stubMarket struct {
	stats *models.TokenStats
	err   error
}

func (m *stubMarket) TokenStats(context.Context, string) (*models.TokenStats, error) {
	return m.stats, m.err
}

type failingAnalyzer struct{}

func (failingAnalyzer) TechnicalAnalysis(context.Context, *models.TokenStats, string) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingAnalyzer) InsightsAnalysis(context.Context, *models.TokenStats) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingAnalyzer) VisualizationAnalysis(context.Context, *models.TokenStats, *models.ChartUpload) (string, error) {
	return "", errors.New("model unavailable")
}

func (failingAnalyzer) MathematicalAnalysis(context.Context, *models.TokenStats) (string, error) {
	return "", errors.New("model unavailable")
}

type liveAnalyzer struct{}

func (liveAnalyzer) TechnicalAnalysis(context.Context, *models.TokenStats, string) (string, error) {
	return "Strong buy above support at 0.90", nil
}

func (liveAnalyzer) InsightsAnalysis(context.Context, *models.TokenStats) (string, error) {
	return "Sentiment is bullish", nil
}

func (liveAnalyzer) VisualizationAnalysis(context.Context, *models.TokenStats, *models.ChartUpload) (string, error) {
	return "Breakout above the triangle", nil
}

func (liveAnalyzer) MathematicalAnalysis(context.Context, *models.TokenStats) (string, error) {
	return "Positive expected return", nil
}

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}

func pipelineStats() *models.TokenStats {
	return &models.TokenStats{
		TokenMarketSnapshot: models.TokenMarketSnapshot{
			Address:        "So11111111111111111111111111111111111111112",
			Symbol:         "TEST",
			Name:           "Test Token",
			PriceUSD:       1.0,
			PriceChange24h: 8,
			Volume24h:      250_000,
			Liquidity:      400_000,
			MarketCap:      5_000_000,
			Buys24h:        600,
			Sells24h:       400,
		},
		Security:    models.SecurityReport{Score: 3},
		LPLockedPct: 90,
	}
}

func TestAnalyze_MarketFailureYieldsBaseline(t *testing.T) {
	svc := NewService(&stubMarket{err: errors.New("no pairs found")}, nil, nopLogger{})

	result, err := svc.Analyze(context.Background(), "addr", nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.SignalHold, result.OverallSignal)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Equal(t, "Unable to complete analysis", result.TechnicalAnalysis)
	assert.Zero(t, result.EntryTarget)
	assert.Zero(t, result.ExitTarget)
	assert.Equal(t, 10, result.RecommendedExitTarget.Percentage)
	assert.InDelta(t, 0.5, result.RiskScore, 1e-9)
	assert.Zero(t, result.CurrentPrice)
}

func TestAnalyze_AllModelsFailingStillProduces(t *testing.T) {
	svc := NewService(&stubMarket{stats: pipelineStats()}, failingAnalyzer{}, nopLogger{})

	result, err := svc.Analyze(context.Background(), "addr", &models.ChartUpload{Filename: "chart.png"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.OverallSignal)
	assert.NotEmpty(t, result.TechnicalAnalysis)
	assert.NotEmpty(t, result.MLInsights)
	assert.NotEmpty(t, result.VisualizationAnalysis)
	assert.NotEmpty(t, result.MathematicalAnalysis)

	// Every angle degraded to its simulated fallback.
	for angle, model := range result.AnalysisModels {
		assert.Equal(t, "simulated", model, "angle %s", angle)
	}

	assert.Equal(t, 1.0, result.CurrentPrice)
	assert.Equal(t, "TEST", result.TokenSymbol)
	assert.GreaterOrEqual(t, result.RiskScore, 0.0)
	assert.LessOrEqual(t, result.RiskScore, 1.0)
	assert.Contains(t, []int{5, 10, 15, 20}, result.RecommendedExitTarget.Percentage)
	assert.Positive(t, result.EntryTarget)
	assert.Greater(t, result.ExitTarget, result.EntryTarget)
}

func TestAnalyze_NilAnalyzerRunsSimulated(t *testing.T) {
	svc := NewService(&stubMarket{stats: pipelineStats()}, nil, nopLogger{})

	result, err := svc.Analyze(context.Background(), "addr", nil)
	require.NoError(t, err)
	assert.Equal(t, "simulated", result.AnalysisModels["technical"])
	assert.Empty(t, result.VisualizationAnalysis) // no chart, no visual angle
	assert.NotEmpty(t, result.Timestamp)
}

func TestAnalyze_LiveModels(t *testing.T) {
	svc := NewService(&stubMarket{stats: pipelineStats()}, liveAnalyzer{}, nopLogger{})

	result, err := svc.Analyze(context.Background(), "addr", &models.ChartUpload{Filename: "chart.png"})
	require.NoError(t, err)

	assert.Equal(t, models.SignalStrongBuy, result.OverallSignal)
	assert.NotEqual(t, "simulated", result.AnalysisModels["technical"])
	assert.Equal(t, "Strong buy above support at 0.90", result.TechnicalAnalysis)

	// The support level quoted by the live model tightens the entry.
	assert.InDelta(t, 0.918, result.EntryTarget, 1e-9)
}
