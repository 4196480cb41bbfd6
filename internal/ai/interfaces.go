package ai

import (
	"context"

	"github.com/rickscode/Solara-Beta/internal/models"
)

// Analyzer defines the four model-analysis angles. Each call is independent:
// a failed angle returns an error and the caller substitutes that angle's
// deterministic fallback, so partial model outages degrade gracefully.
type Analyzer interface {
	// TechnicalAnalysis produces the technical read of the market data.
	// visualSummary, when non-empty, is folded into the prompt so the
	// technical angle can build on the chart analysis.
	TechnicalAnalysis(ctx context.Context, stats *models.TokenStats, visualSummary string) (string, error)

	// InsightsAnalysis produces the sentiment / market-psychology read.
	InsightsAnalysis(ctx context.Context, stats *models.TokenStats) (string, error)

	// VisualizationAnalysis analyzes a user-uploaded chart. Only called
	// when a chart was supplied.
	VisualizationAnalysis(ctx context.Context, stats *models.TokenStats, chart *models.ChartUpload) (string, error)

	// MathematicalAnalysis produces the quantitative-modeling read.
	MathematicalAnalysis(ctx context.Context, stats *models.TokenStats) (string, error)
}
