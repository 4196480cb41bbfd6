package groq

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/rickscode/Solara-Beta/internal/models"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// One specialized model per analysis angle.
const (
	technicalModel     = "deepseek-r1-distill-llama-70b"
	insightsModel      = "llama-3.3-70b-versatile"
	visualizationModel = "meta-llama/llama-4-maverick-17b-128e-instruct"
	mathematicalModel  = "moonshotai/kimi-k2-instruct"
)

// GroqAnalyzer implements the ai.Analyzer interface against the Groq
// OpenAI-compatible chat completions API.
type GroqAnalyzer struct {
	client *openai.Client
}

// NewGroqAnalyzer creates a Groq analyzer instance. baseURL overrides the
// default endpoint when non-empty, which tests use to hit a stub server.
func NewGroqAnalyzer(apiKey, baseURL string) *GroqAnalyzer {
	config := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	config.BaseURL = baseURL
	return &GroqAnalyzer{client: openai.NewClientWithConfig(config)}
}

// marketBrief formats the market data block shared by every prompt.
func marketBrief(stats *models.TokenStats) string {
	return fmt.Sprintf(`Token Address: %s
Current Price: $%.6f
24h Price Change: %.2f%%
24h Volume: $%.0f
Liquidity: $%.0f
Market Cap: $%.0f
24h Transactions - Buys: %d | Sells: %d`,
		stats.Address,
		stats.PriceUSD,
		stats.PriceChange24h,
		stats.Volume24h,
		stats.Liquidity,
		stats.MarketCap,
		stats.Buys24h,
		stats.Sells24h)
}

func securityBrief(stats *models.TokenStats) string {
	authority := "Decentralized"
	if stats.Security.MintAuthority != "" || stats.Security.FreezeAuthority != "" {
		authority = "Centralized"
	}
	return fmt.Sprintf(`Risk Score: %d (Lower = Better)
LP Locked: %.2f%%
Holders: %d
Markets: %d
Authority Status: %s`,
		stats.RugcheckScore,
		stats.LPLockedPct,
		stats.TotalHolders,
		stats.TotalMarkets,
		authority)
}

// TechnicalAnalysis implements the Analyzer interface.
func (a *GroqAnalyzer) TechnicalAnalysis(ctx context.Context, stats *models.TokenStats, visualSummary string) (string, error) {
	var system, user string
	if visualSummary != "" {
		system = "You are an expert technical analyst. Create concise, actionable summaries based on detailed visual chart analysis. Focus on the most important trading insights and recommendations."
		user = fmt.Sprintf(`Create a concise technical summary based on this detailed visual chart analysis:

%s

DETAILED VISUAL CHART ANALYSIS:
%s

Based on the detailed visual analysis above, provide this CONCISE SUMMARY:

**Technical Summary**: 2-3 sentences combining key price action and visual patterns
**Key Levels**: Most important support/resistance levels identified in visual analysis with specific price targets
**Trading Outlook**: Clear BUY/SELL/HOLD with specific reasoning from chart patterns
**Risk Factors**: Main risks identified from visual chart analysis

CRITICAL: If recommending BUY/SELL, specify which resistance level percentage (5%%, 10%%, 15%%, or 20%% above current price) would be the easiest to break based on chart patterns, volume profile, and historical price action.

Keep this summary short and actionable - the detailed visual analysis is displayed separately.`, marketBrief(stats), visualSummary)
	} else {
		system = "You are an expert technical analyst specializing in cryptocurrency chart analysis and technical indicators. Provide detailed technical analysis based on price data and market metrics. Focus on price action patterns, support/resistance levels, volume analysis, technical indicators, and trading recommendations."
		user = fmt.Sprintf(`Provide technical analysis for this token:

%s

Provide clean technical details in this format:

**Price Action**: Brief trend assessment with momentum direction
**Support Levels**: Volume-weighted support levels with confidence scores and specific prices
**Resistance Levels**: Volume-weighted resistance levels with confidence scores and specific prices
**Volume Analysis**: Buy/sell pressure assessment with transaction analysis
**Liquidity Analysis**: Market depth and slippage assessment
**Trading Signal**: BUY/SELL/HOLD with confidence level

CRITICAL: If recommending BUY/SELL, specify which resistance level percentage (5%%, 10%%, 15%%, or 20%% above current price of $%.6f) would be the easiest to break based on volume analysis, liquidity patterns, and price momentum. Consider which level has the least resistance and highest probability of successful breakout.

Keep it concise and professional.`, marketBrief(stats), stats.PriceUSD)
	}

	return a.createChatCompletion(ctx, technicalModel, system, user, 0.1, 1500)
}

// InsightsAnalysis implements the Analyzer interface.
func (a *GroqAnalyzer) InsightsAnalysis(ctx context.Context, stats *models.TokenStats) (string, error) {
	system := "You are a seasoned cryptocurrency market analyst specializing in market insights, sentiment analysis, and trading psychology. Provide comprehensive market insights combining technical analysis with market sentiment and behavioral patterns."
	user := fmt.Sprintf(`Provide comprehensive market insights for this token:

%s

Analyze and provide insights on:
1. Market sentiment and trading psychology indicators
2. Volume patterns and market participation analysis
3. Liquidity conditions and market depth assessment
4. Buy/sell pressure analysis and market dynamics
5. Market timing and opportunity assessment
6. Behavioral patterns and market psychology
7. Final trading recommendation with reasoning
8. Key risk factors and opportunity highlights

Synthesize all factors into actionable trading insights with clear reasoning.`, marketBrief(stats))

	return a.createChatCompletion(ctx, insightsModel, system, user, 0.2, 1500)
}

// VisualizationAnalysis implements the Analyzer interface.
func (a *GroqAnalyzer) VisualizationAnalysis(ctx context.Context, stats *models.TokenStats, chart *models.ChartUpload) (string, error) {
	system := "You are an expert in visual pattern recognition and chart visualization analysis for cryptocurrency trading. Analyze user-uploaded charts to identify price patterns, chart formations, candlestick patterns, volume patterns, and visual trading indicators. Focus on pattern recognition, trend visualization, support/resistance identification, and actionable visual trading signals."
	user := fmt.Sprintf(`Perform comprehensive visual pattern analysis for this user-uploaded trading chart:

TOKEN DATA:
%s

SECURITY INDICATORS:
%s

USER-UPLOADED CHART:
Chart Source: User-uploaded trading chart (%s)
Chart Format: Professional trading platform (TradingView, DEXTools, etc.)
Analysis Focus: Visual patterns, technical formations, and chart-based trading signals

Analyze and provide insights on:
1. **Price Pattern Recognition**: Identify chart patterns (triangles, flags, wedges, head & shoulders)
2. **Candlestick Formations**: Analyze recent candlestick patterns and formations
3. **Volume Pattern Analysis**: Visual volume patterns and their implications
4. **Support/Resistance Visualization**: Key visual levels and breakout patterns
5. **Trend Line Analysis**: Visual trend lines and channel patterns
6. **Visual Trading Signals**: Chart-based entry/exit signals
7. **Pattern-Based Price Targets**: Visual projection of price movements
8. **Risk Visualization**: Visual representation of risk factors from the audit data

Provide specific visual insights that would be visible on a trading chart. Include structured data for frontend visualization.`,
		marketBrief(stats), securityBrief(stats), chart.Filename)

	return a.createChatCompletion(ctx, visualizationModel, system, user, 0.15, 1500)
}

// MathematicalAnalysis implements the Analyzer interface.
func (a *GroqAnalyzer) MathematicalAnalysis(ctx context.Context, stats *models.TokenStats) (string, error) {
	system := "You are an advanced quantitative analyst specializing in deep mathematical modeling of cryptocurrency markets. Perform sophisticated mathematical analysis using statistical models, probability theory, stochastic processes, and advanced mathematical frameworks. Focus on mathematical precision, statistical significance, and quantitative modeling."
	user := fmt.Sprintf(`Perform deep mathematical analysis for this token:

%s

SECURITY MATHEMATICS:
%s

Perform advanced mathematical modeling:

1. **Stochastic Price Modeling**: Calculate volatility using Geometric Brownian Motion, derive expected returns and variance
2. **Probability Distribution Analysis**: Model price movements using statistical distributions, calculate confidence intervals
3. **Risk-Return Optimization**: Mathematical risk-return ratios, Sharpe ratio calculations, maximum drawdown estimates
4. **Liquidity Mathematics**: Calculate slippage models, market impact functions, and liquidity depth analysis
5. **Statistical Arbitrage Models**: Cross-market analysis, mean reversion calculations, statistical significance tests
6. **Monte Carlo Simulations**: Price path simulations, probability of profit calculations, risk scenario modeling
7. **Mathematical Security Scoring**: Quantitative risk model incorporating audit metrics with mathematical weights
8. **Algorithmic Trading Mathematics**: Optimal position sizing using Kelly criterion, expected value calculations

Provide precise mathematical formulations, statistical measures, and quantitative risk assessments with numerical precision.`,
		marketBrief(stats), securityBrief(stats))

	return a.createChatCompletion(ctx, mathematicalModel, system, user, 0.05, 2000)
}

// createChatCompletion sends one chat completion request to the Groq API.
func (a *GroqAnalyzer) createChatCompletion(ctx context.Context, model, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from api")
	}
	return resp.Choices[0].Message.Content, nil
}
