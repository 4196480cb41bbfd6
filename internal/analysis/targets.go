package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rickscode/Solara-Beta/internal/models"
)

var (
	supportRe    = regexp.MustCompile(`support.*?(\d+\.?\d*)`)
	resistanceRe = regexp.MustCompile(`resistance.*?(\d+\.?\d*)`)
)

// PriceTargets derives the entry and default exit price from the current
// price, the technical text and 24h momentum. Base targets are 1% below and
// 20% above current. A support level quoted below current price tightens the
// entry to 2% above it; a resistance level quoted above current price pulls
// the exit to 2% below it. Momentum beyond ±10% overrides exit (up) or entry
// (down) respectively.
func PriceTargets(currentPrice float64, technicalText string, change24h float64) (entry, exit float64) {
	entry = currentPrice * 0.99
	exit = currentPrice * 1.2

	t := strings.ToLower(technicalText)

	if m := supportRe.FindStringSubmatch(t); m != nil {
		if support, err := strconv.ParseFloat(m[1], 64); err == nil && support < currentPrice {
			entry = support * 1.02
		}
	}

	if m := resistanceRe.FindStringSubmatch(t); m != nil {
		if resistance, err := strconv.ParseFloat(m[1], 64); err == nil && resistance > currentPrice {
			exit = resistance * 0.98
		}
	}

	if change24h > 10 {
		exit = currentPrice * 1.3
	} else if change24h < -10 {
		entry = currentPrice * 0.95
	}

	return entry, exit
}

// exitPercentages are the candidate exit targets, in tie-break order: the
// first maximum wins, so more conservative targets prevail on equal score.
var exitPercentages = [4]int{5, 10, 15, 20}

// RecommendedExitTarget scores the candidate exit percentages against the
// synthesized signal, its confidence and pattern cues in the analysis texts,
// and returns the winner with a short joined reasoning string. Reported
// confidence is capped at 0.95.
func RecommendedExitTarget(signal models.SynthesizedSignal, technicalText, visualText string, currentPrice float64) models.PriceTargetRecommendation {
	if currentPrice == 0 {
		return models.PriceTargetRecommendation{
			Percentage: 10,
			Reasoning:  "Default target",
			Confidence: 0.5,
		}
	}

	tech := strings.ToLower(technicalText)
	visual := strings.ToLower(visualText)
	bullish := signal.Signal == models.SignalBuy || signal.Signal == models.SignalStrongBuy

	resistanceLevels := parseAllLevels(resistanceRe, tech)

	bestPct := exitPercentages[0]
	bestScore := -1.0
	for _, pct := range exitPercentages {
		score := 0.5
		targetPrice := currentPrice * (1 + float64(pct)/100)

		// Signal strength: buy signals reward aggressive targets more
		// than conservative ones; hold leans conservative.
		if bullish {
			if pct <= 10 {
				score += 0.2
			} else {
				score += 0.3
			}
		} else if signal.Signal == models.SignalHold && pct <= 10 {
			score += 0.1
		}

		// Confidence: high confidence unlocks aggressive targets, low
		// confidence favors conservative ones.
		if signal.Confidence > 0.8 && pct >= 15 {
			score += 0.2
		} else if signal.Confidence < 0.6 && pct <= 10 {
			score += 0.1
		}

		// Resistance alignment: every quoted level within 5% of the implied
		// target price is a vote for that target, so a target bracketed by
		// two mentioned levels outranks one near a single level.
		for _, level := range resistanceLevels {
			if math.Abs(level-targetPrice)/currentPrice < 0.05 {
				score += 0.3
			}
		}

		// Chart patterns from the visual angle.
		if visual != "" {
			if strings.Contains(visual, "breakout") && pct >= 15 {
				score += 0.2
			} else if strings.Contains(visual, "consolidation") && pct <= 10 {
				score += 0.2
			} else if strings.Contains(visual, "triangle") && (pct == 10 || pct == 15) {
				score += 0.15
			}
		}

		if score > bestScore {
			bestScore = score
			bestPct = pct
		}
	}

	return models.PriceTargetRecommendation{
		Percentage: bestPct,
		Price:      currentPrice * (1 + float64(bestPct)/100),
		Reasoning:  exitReasoning(signal, tech, visual),
		Confidence: math.Min(bestScore, 0.95),
	}
}

// exitReasoning joins up to three applicable human-readable justifications.
func exitReasoning(signal models.SynthesizedSignal, tech, visual string) string {
	var parts []string

	if signal.Signal == models.SignalBuy || signal.Signal == models.SignalStrongBuy {
		parts = append(parts, signal.Signal+" signal supports higher targets")
	}
	if signal.Confidence > 0.8 {
		parts = append(parts, "High confidence analysis")
	} else if signal.Confidence < 0.6 {
		parts = append(parts, "Conservative target due to lower confidence")
	}
	if strings.Contains(tech, "resistance") {
		parts = append(parts, "Aligns with identified resistance levels")
	}
	if strings.Contains(visual, "breakout") {
		parts = append(parts, "Chart pattern suggests breakout potential")
	} else if strings.Contains(visual, "consolidation") {
		parts = append(parts, "Consolidation pattern favors conservative exit")
	}

	if len(parts) == 0 {
		parts = append(parts, "Balanced risk-reward ratio")
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " • ")
}

func parseAllLevels(re *regexp.Regexp, text string) []float64 {
	var levels []float64
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			levels = append(levels, v)
		}
	}
	return levels
}
