package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rickscode/Solara-Beta/internal/ai"
	"github.com/rickscode/Solara-Beta/internal/models"
	"github.com/rickscode/Solara-Beta/internal/risk"
)

const simulatedModel = "simulated"

// MarketSource provides the token stats the pipeline analyzes.
type MarketSource interface {
	TokenStats(ctx context.Context, address string) (*models.TokenStats, error)
}

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Result is the complete multi-model analysis for one token.
type Result struct {
	OverallSignal         string                           `json:"overall_signal"`
	Confidence            float64                          `json:"confidence"`
	TechnicalAnalysis     string                           `json:"technical_analysis"`
	MLInsights            string                           `json:"ml_insights"`
	VisualizationAnalysis string                           `json:"visualization_analysis,omitempty"`
	MathematicalAnalysis  string                           `json:"mathematical_analysis"`
	EntryTarget           float64                          `json:"entry_target"`
	ExitTarget            float64                          `json:"exit_target"`
	RecommendedExitTarget models.PriceTargetRecommendation `json:"recommended_exit_target"`
	RiskScore             float64                          `json:"risk_score"`
	CurrentPrice          float64                          `json:"current_price"`
	TokenName             string                           `json:"token_name"`
	TokenSymbol           string                           `json:"token_symbol"`
	AnalysisModels        map[string]string                `json:"analysis_models"`
	Timestamp             string                           `json:"timestamp"`
}

// Service runs the analysis pipeline: fetch market and security data, run
// the per-angle model analyses, synthesize a signal and derive price
// targets. Any failing angle degrades to its formula-based fallback, so a
// result is always produced once token stats are available.
type Service struct {
	market   MarketSource
	analyzer ai.Analyzer // nil when no API key is configured
	logger   Logger
}

// NewService creates an analysis service. A nil analyzer is allowed and
// switches the whole pipeline to simulated output.
func NewService(market MarketSource, analyzer ai.Analyzer, logger Logger) *Service {
	return &Service{market: market, analyzer: analyzer, logger: logger}
}

// Analyze produces the full analysis for a token. The chart is optional;
// when present a visual analysis runs first and its summary feeds the
// technical prompt. Every model failure is absorbed by a fallback, and when
// even the token stats cannot be fetched the neutral baseline result is
// returned, so the analysis never fails outright.
func (s *Service) Analyze(ctx context.Context, address string, chart *models.ChartUpload) (*Result, error) {
	stats, err := s.market.TokenStats(ctx, address)
	if err != nil {
		s.logger.Error("token stats unavailable, returning baseline analysis", "token", address, "error", err)
		return baselineResult(), nil
	}
	return s.analyzeStats(ctx, stats, chart), nil
}

// baselineResult is the bottom of the fallback stack: a neutral HOLD answer
// served when not even price data is available.
func baselineResult() *Result {
	return &Result{
		OverallSignal:     models.SignalHold,
		Confidence:        0.5,
		TechnicalAnalysis: "Unable to complete analysis",
		MLInsights:        "Unable to generate insights",
		RecommendedExitTarget: models.PriceTargetRecommendation{
			Percentage: 10,
			Reasoning:  "Default conservative target",
			Confidence: 0.5,
		},
		RiskScore: 0.5,
		AnalysisModels: map[string]string{
			"technical":    simulatedModel,
			"insights":     simulatedModel,
			"mathematical": simulatedModel,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Service) analyzeStats(ctx context.Context, stats *models.TokenStats, chart *models.ChartUpload) *Result {
	texts := models.AnalysisTexts{}
	modelsUsed := map[string]string{
		"technical":    simulatedModel,
		"insights":     simulatedModel,
		"mathematical": simulatedModel,
	}

	// Visualization runs before the technical angle so its summary can be
	// folded into the technical prompt.
	if chart != nil {
		texts.Visualization = s.visualization(ctx, stats, chart, modelsUsed)
	}

	texts.Technical = s.technical(ctx, stats, texts.Visualization, modelsUsed)

	// Insights and mathematical have no cross-dependencies.
	var wg sync.WaitGroup
	var insights, mathematical string
	var insightsModel, mathModel string
	wg.Add(2)
	go func() {
		defer wg.Done()
		insights, insightsModel = s.insights(ctx, stats)
	}()
	go func() {
		defer wg.Done()
		mathematical, mathModel = s.mathematical(ctx, stats)
	}()
	wg.Wait()
	texts.Insights = insights
	texts.Mathematical = mathematical
	modelsUsed["insights"] = insightsModel
	modelsUsed["mathematical"] = mathModel

	signal := Synthesize(texts)
	entry, exit := PriceTargets(stats.PriceUSD, texts.Technical, stats.PriceChange24h)
	recommended := RecommendedExitTarget(signal, texts.Technical, texts.Visualization, stats.PriceUSD)

	return &Result{
		OverallSignal:         signal.Signal,
		Confidence:            signal.Confidence,
		TechnicalAnalysis:     texts.Technical,
		MLInsights:            texts.Insights,
		VisualizationAnalysis: texts.Visualization,
		MathematicalAnalysis:  texts.Mathematical,
		EntryTarget:           entry,
		ExitTarget:            exit,
		RecommendedExitTarget: recommended,
		RiskScore:             risk.Score(stats),
		CurrentPrice:          stats.PriceUSD,
		TokenName:             stats.Name,
		TokenSymbol:           stats.Symbol,
		AnalysisModels:        modelsUsed,
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *Service) visualization(ctx context.Context, stats *models.TokenStats, chart *models.ChartUpload, modelsUsed map[string]string) string {
	if s.analyzer == nil {
		modelsUsed["visualization"] = simulatedModel
		return FallbackVisual(stats)
	}
	text, err := s.analyzer.VisualizationAnalysis(ctx, stats, chart)
	if err != nil {
		s.logger.Error("visualization analysis failed, using fallback", "token", stats.Address, "error", err)
		modelsUsed["visualization"] = simulatedModel
		return FallbackVisual(stats)
	}
	modelsUsed["visualization"] = "llama-4-maverick"
	return text
}

func (s *Service) technical(ctx context.Context, stats *models.TokenStats, visualSummary string, modelsUsed map[string]string) string {
	if s.analyzer == nil {
		return FallbackTechnical(stats)
	}
	text, err := s.analyzer.TechnicalAnalysis(ctx, stats, visualSummary)
	if err != nil {
		s.logger.Error("technical analysis failed, using fallback", "token", stats.Address, "error", err)
		return FallbackTechnical(stats)
	}
	modelsUsed["technical"] = "deepseek-r1"
	return text
}

func (s *Service) insights(ctx context.Context, stats *models.TokenStats) (string, string) {
	if s.analyzer == nil {
		return FallbackInsights(stats), simulatedModel
	}
	text, err := s.analyzer.InsightsAnalysis(ctx, stats)
	if err != nil {
		s.logger.Error("insights analysis failed, using fallback", "token", stats.Address, "error", err)
		return FallbackInsights(stats), simulatedModel
	}
	return text, "llama-3.3-70b"
}

func (s *Service) mathematical(ctx context.Context, stats *models.TokenStats) (string, string) {
	if s.analyzer == nil {
		return FallbackMathematical(stats), simulatedModel
	}
	text, err := s.analyzer.MathematicalAnalysis(ctx, stats)
	if err != nil {
		s.logger.Error("mathematical analysis failed, using fallback", "token", stats.Address, "error", err)
		return FallbackMathematical(stats), simulatedModel
	}
	return text, "kimi-k2"
}
