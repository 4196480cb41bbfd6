package analysis

import (
	"math"
	"strings"

	"github.com/rickscode/Solara-Beta/internal/models"
)

// Synthesize combines the per-angle analysis texts into one discrete trading
// signal with a confidence value. This is a fixed keyword rule table over
// free text, not NLP: the vocabulary, weights and breakpoints are contract
// constants and must not be extended, callers depend on reproducible output
// for the same texts.
func Synthesize(texts models.AnalysisTexts) models.SynthesizedSignal {
	var weights []float64

	weights = append(weights, technicalWeight(texts.Technical))
	weights = append(weights, insightsWeight(texts.Insights))

	if texts.Visualization != "" {
		weights = append(weights, visualizationWeight(texts.Visualization))
	}
	if texts.Mathematical != "" {
		weights = append(weights, mathematicalWeight(texts.Mathematical))
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	avg := sum / float64(len(weights))

	return classify(avg)
}

// technicalWeight: strong buy outranks plain buy; sell is the only negative
// cue; hold and unmatched texts are neutral.
func technicalWeight(text string) float64 {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "buy") && strings.Contains(t, "strong"):
		return 2
	case strings.Contains(t, "buy"):
		return 1
	case strings.Contains(t, "sell"):
		return -1
	default:
		return 0
	}
}

func insightsWeight(text string) float64 {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "bullish") || strings.Contains(t, "uptrend"):
		return 1
	case strings.Contains(t, "bearish") || strings.Contains(t, "downtrend"):
		return -1
	default:
		return 0
	}
}

func visualizationWeight(text string) float64 {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "breakout") || strings.Contains(t, "bullish pattern") || strings.Contains(t, "upward trend"):
		return 1
	case strings.Contains(t, "breakdown") || strings.Contains(t, "bearish pattern") || strings.Contains(t, "downward trend"):
		return -1
	default:
		// consolidation / sideways and anything unmatched are neutral
		return 0
	}
}

func mathematicalWeight(text string) float64 {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "positive expected return") || strings.Contains(t, "favorable risk-return"):
		return 1
	case strings.Contains(t, "negative expected return") || strings.Contains(t, "unfavorable risk-return"):
		return -1
	case strings.Contains(t, "optimal position size") && !strings.Contains(t, "low"):
		return 0.5
	default:
		return 0
	}
}

// classify maps the averaged weight to a signal label and confidence via
// fixed breakpoints.
func classify(avg float64) models.SynthesizedSignal {
	abs := math.Abs(avg)
	switch {
	case avg > 0.7:
		return models.SynthesizedSignal{
			Signal:     models.SignalStrongBuy,
			Confidence: math.Min(0.95, 0.8+abs*0.1),
		}
	case avg > 0.3:
		return models.SynthesizedSignal{
			Signal:     models.SignalBuy,
			Confidence: math.Min(0.9, 0.7+abs*0.2),
		}
	case avg > -0.3:
		return models.SynthesizedSignal{
			Signal:     models.SignalHold,
			Confidence: 0.6 + abs*0.1,
		}
	case avg > -0.7:
		return models.SynthesizedSignal{
			Signal:     models.SignalSell,
			Confidence: math.Min(0.9, 0.7+abs*0.2),
		}
	default:
		return models.SynthesizedSignal{
			Signal:     models.SignalStrongSell,
			Confidence: math.Min(0.95, 0.8+abs*0.1),
		}
	}
}
