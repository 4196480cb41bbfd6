package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rickscode/Solara-Beta/internal/models"
)

// The fallback generator substitutes deterministic, formula-based analysis
// whenever a live model or data source is unavailable. The "indicator"
// values it prints (EMA, Bollinger bands, stochastic) are presentational
// placeholders derived from current price, they are not real indicators and
// the generated texts say so.

// level is one formula-derived support or resistance band.
type level struct {
	Price      float64
	Confidence float64
}

type levelSet struct {
	Support1    level
	Support2    level
	Resistance1 level
	Resistance2 level
}

// volumeWeightedLevels derives support/resistance bands from buy/sell
// transaction balance; more buys push supports lower (stronger floor), more
// sells push resistances higher.
func volumeWeightedLevels(currentPrice, volume24h float64, buys, sells int) levelSet {
	total := buys + sells
	if total == 0 {
		return levelSet{
			Support1:    level{currentPrice * 0.97, 0.3},
			Support2:    level{currentPrice * 0.94, 0.2},
			Resistance1: level{currentPrice * 1.03, 0.3},
			Resistance2: level{currentPrice * 1.06, 0.2},
		}
	}

	buyWeight := float64(buys) / float64(total)
	sellWeight := float64(sells) / float64(total)

	volumeFactor := math.Min(volume24h/1_000_000, 1.0)
	txnFactor := math.Min(float64(total)/1000, 1.0)
	baseConfidence := (volumeFactor + txnFactor) / 2

	return levelSet{
		Support1: level{
			Price:      currentPrice * (0.97 - buyWeight*0.01),
			Confidence: math.Min(baseConfidence+buyWeight*0.3, 0.9),
		},
		Support2: level{
			Price:      currentPrice * (0.94 - buyWeight*0.02),
			Confidence: math.Min(baseConfidence+buyWeight*0.2, 0.8),
		},
		Resistance1: level{
			Price:      currentPrice * (1.03 + sellWeight*0.01),
			Confidence: math.Min(baseConfidence+sellWeight*0.3, 0.9),
		},
		Resistance2: level{
			Price:      currentPrice * (1.06 + sellWeight*0.02),
			Confidence: math.Min(baseConfidence+sellWeight*0.2, 0.8),
		},
	}
}

// FallbackTechnical reconstructs a technical analysis text from market data
// alone, in the same sectioned format the live model is prompted for.
func FallbackTechnical(stats *models.TokenStats) string {
	price := stats.PriceUSD
	change := stats.PriceChange24h
	levels := volumeWeightedLevels(price, stats.Volume24h, stats.Buys24h, stats.Sells24h)

	trend := "Sideways"
	if change > 2 {
		trend = "Bullish"
	} else if change < -2 {
		trend = "Bearish"
	}

	signal := models.SignalHold
	if change > 5 && stats.Volume24h > 50_000 {
		signal = models.SignalBuy
	} else if change < -10 {
		signal = models.SignalSell
	}

	buyPressure := "Balanced"
	if float64(stats.Buys24h) > float64(stats.Sells24h)*1.5 {
		buyPressure = "Strong"
	} else if float64(stats.Sells24h) > float64(stats.Buys24h)*1.5 {
		buyPressure = "Weak"
	}

	slippage := "Low"
	if stats.Liquidity <= 100_000 {
		slippage = "High"
	} else if stats.Liquidity <= 1_000_000 {
		slippage = "Medium"
	}

	return fmt.Sprintf(`**Price Action**: %s momentum with %.2f%% 24h change (simulated analysis)

**Support Levels**: $%.6f (confidence: %.0f%%), $%.6f (confidence: %.0f%%)

**Resistance Levels**: $%.6f (confidence: %.0f%%), $%.6f (confidence: %.0f%%)

**Volume Analysis**: %s buy pressure (%d buys vs %d sells) with $%.0f 24h volume

**Liquidity Analysis**: $%.0f liquidity depth, %s slippage risk

**Trading Signal**: %s (Confidence: %.0f%%)`,
		trend, math.Abs(change),
		levels.Support1.Price, levels.Support1.Confidence*100,
		levels.Support2.Price, levels.Support2.Confidence*100,
		levels.Resistance1.Price, levels.Resistance1.Confidence*100,
		levels.Resistance2.Price, levels.Resistance2.Confidence*100,
		buyPressure, stats.Buys24h, stats.Sells24h, stats.Volume24h,
		stats.Liquidity, slippage,
		signal, math.Min(60+math.Abs(change)*2, 95))
}

// FallbackInsights reconstructs the sentiment/insights text from the buy
// ratio and formulaic indicator placeholders.
func FallbackInsights(stats *models.TokenStats) string {
	price := stats.PriceUSD
	change := stats.PriceChange24h
	total := stats.Buys24h + stats.Sells24h
	buyRatio := 0.5
	if total > 0 {
		buyRatio = float64(stats.Buys24h) / float64(total)
	}

	sentiment := "Neutral"
	if buyRatio > 0.6 {
		sentiment = "Bullish"
	} else if buyRatio < 0.4 {
		sentiment = "Bearish"
	}

	regime := "SIDEWAYS"
	if buyRatio > 0.6 && change > 5 {
		regime = "BULL"
	} else if buyRatio < 0.4 && change < -5 {
		regime = "BEAR"
	}

	volumeMomentum := "Decreasing"
	if stats.Volume24h > 100_000 {
		volumeMomentum = "Increasing"
	}

	prediction := "Consolidation expected"
	if buyRatio > 0.55 && change > 0 {
		prediction = "Uptrend continuation"
	} else if buyRatio < 0.45 {
		prediction = "Trend reversal likely"
	}

	return fmt.Sprintf(`**Market Insights (simulated - live model unavailable)**

**Market Sentiment**: %s with %.1f%% buy ratio (%d buys vs %d sells).

**Market Regime**: %s market detected.

**Pattern Recognition**:
- Trend strength: %.1f/100
- Volume momentum: %s
- Breakout probability: %.0f%%

**Indicator Placeholders** (derived from current price, not computed):
- 20-period EMA: $%.6f
- Bollinger Bands: $%.6f - $%.6f
- Stochastic: %.0f%%

**Prediction**: %s based on formula heuristics.`,
		sentiment, buyRatio*100, stats.Buys24h, stats.Sells24h,
		regime,
		math.Abs(change)*2,
		volumeMomentum,
		clamp(50+change*3, 15, 85),
		price*0.99,
		price*0.95, price*1.05,
		clamp(50+change*2, 10, 90),
		prediction)
}

// FallbackVisual is the one-line substitute when the visual model fails for
// an uploaded chart.
func FallbackVisual(stats *models.TokenStats) string {
	direction := "downward"
	if stats.PriceChange24h > 0 {
		direction = "upward"
	}
	return fmt.Sprintf("Visual Analysis (simulated): Price trend shows %s momentum with volume supporting the move. Key support at $%.6f, resistance at $%.6f.",
		direction, stats.PriceUSD*0.95, stats.PriceUSD*1.05)
}

// FallbackMathematical is the formula substitute for the quantitative angle.
func FallbackMathematical(stats *models.TokenStats) string {
	volatility := math.Abs(stats.PriceChange24h) / 100
	expectedReturn := stats.PriceChange24h / 100
	riskAdjusted := expectedReturn / math.Max(volatility, 0.01)
	positionSize := math.Min(0.25/math.Max(volatility, 0.01), 0.1)
	return fmt.Sprintf("Mathematical Analysis (simulated): Volatility σ = %.4f, Expected return μ = %.4f, Risk-adjusted return = %.2f. Optimal position size: %.3f of portfolio.",
		volatility, expectedReturn, riskAdjusted, positionSize)
}

// Synthetic OHLCV volatility model constants.
const (
	baseVolatility      = 0.02
	liquidityPivot      = 500_000
	liquidityFactorMin  = 0.5
	liquidityFactorMax  = 2.0
	volumeFactorMin     = 0.8
	volumeFactorMax     = 1.5
	candleInterval      = 3600 // one candle per hour
	syntheticPriceFloor = 0.1  // ×current
	syntheticPriceCeil  = 10.0 // ×current
)

// syntheticVolatility scales the base volatility by liquidity (thin pools
// swing harder) and by volume (active markets move more), both clamped.
func syntheticVolatility(liquidity, volume24h float64) float64 {
	liquidityFactor := clamp(liquidityPivot/math.Max(liquidity, 10_000), liquidityFactorMin, liquidityFactorMax)
	volumeFactor := 1.0
	if volume24h > 0 {
		volumeFactor = clamp(volume24h/100_000, volumeFactorMin, volumeFactorMax)
	}
	return baseVolatility * liquidityFactor * volumeFactor
}

// SyntheticCandles generates an hourly OHLCV series ending now, seeded from
// the live price and 24h change: the series interpolates from the implied
// 24h-ago price to the current one, with a slow sine trend, a fast sine
// ripple and bounded uniform noise on top. Every close stays within
// [0.1x, 10x] of the seed price and timestamps are strictly increasing.
func SyntheticCandles(currentPrice, change24h, volume24h, liquidity float64, limit int) []models.Candle {
	if limit <= 0 {
		return nil
	}

	price24hAgo := currentPrice
	if change24h != 0 {
		price24hAgo = currentPrice / (1 + change24h/100)
	}

	volatility := syntheticVolatility(liquidity, volume24h)
	now := time.Now().Unix()

	candles := make([]models.Candle, 0, limit)
	for i := 0; i < limit; i++ {
		ts := now - int64(i)*candleInterval

		progress := 0.0
		if limit > 1 {
			progress = float64(limit-i-1) / float64(limit-1)
		}
		basePrice := price24hAgo + (currentPrice-price24hAgo)*progress

		trend := math.Sin(float64(i)/20) * volatility * 0.3
		ripple := math.Sin(float64(i)/5) * volatility * 0.2
		noise := (rand.Float64()*2 - 1) * volatility * 0.5

		adjusted := basePrice * (1 + trend + ripple + noise)
		adjusted = clamp(adjusted, currentPrice*syntheticPriceFloor, currentPrice*syntheticPriceCeil)

		micro := volatility * 0.1
		open := adjusted * (1 + (rand.Float64()*2-1)*micro)
		closeP := adjusted * (1 + (rand.Float64()*2-1)*micro)
		high := math.Max(open, closeP) * (1 + rand.Float64()*micro*2)
		low := math.Min(open, closeP) * (1 - rand.Float64()*micro*2)

		volume := rand.Float64()*9000 + 1000
		if volume24h > 0 {
			volume = volume24h / 24 * (0.3 + rand.Float64()*2.2)
		}

		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     clamp(closeP, currentPrice*syntheticPriceFloor, currentPrice*syntheticPriceCeil),
			Volume:    volume,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp < candles[j].Timestamp
	})
	return candles
}

// SimulatedTrades fabricates a plausible recent-trades feed around the
// current price. Real per-trade data needs a chain indexer; this feed is
// advisory UI filler and is labeled as such by its tx hashes.
func SimulatedTrades(currentPrice float64, limit int) []models.TradeEntry {
	if limit > 20 {
		limit = 20
	}
	now := time.Now().Unix()

	trades := make([]models.TradeEntry, 0, limit)
	for i := 0; i < limit; i++ {
		side := "buy"
		if rand.Intn(2) == 1 {
			side = "sell"
		}
		price := currentPrice * (0.98 + rand.Float64()*0.04)
		amountUSD := 10 + rand.Float64()*990
		trades = append(trades, models.TradeEntry{
			Type:         side,
			Price:        price,
			AmountUSD:    amountUSD,
			AmountTokens: amountUSD / price,
			Timestamp:    now - int64(60+rand.Intn(3540)),
			TxHash:       fmt.Sprintf("simulated_%d_%d", i, now),
		})
	}

	sort.Slice(trades, func(i, j int) bool {
		return trades[i].Timestamp > trades[j].Timestamp
	})
	return trades
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
