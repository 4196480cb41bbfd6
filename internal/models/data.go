package models

import "time"

// UnknownSecurityScore is the sentinel audit score used when the security
// source is unreachable or returns garbage. Lower scores are safer, so the
// sentinel reads as maximum caution everywhere downstream.
const UnknownSecurityScore = 999

// TokenMarketSnapshot holds one fetch of market data for a token's primary
// trading pair. Snapshots are not persisted as-is; they are rebuilt on every
// request.
type TokenMarketSnapshot struct {
	Address        string    `json:"token_address"`
	Symbol         string    `json:"token_symbol"`
	Name           string    `json:"token_name"`
	PriceUSD       float64   `json:"price_usd"`
	PriceSOL       float64   `json:"price_sol"`
	PriceChange5m  float64   `json:"price_change_5m"`
	PriceChange1h  float64   `json:"price_change_1h"`
	PriceChange6h  float64   `json:"price_change_6h"`
	PriceChange24h float64   `json:"price_change_24h"`
	Volume24h      float64   `json:"volume_24h"`
	Liquidity      float64   `json:"liquidity"`
	MarketCap      float64   `json:"market_cap"`
	FDV            float64   `json:"fdv"`
	Buys24h        int       `json:"buys_24h"`
	Sells24h       int       `json:"sells_24h"`
	PairAddress    string    `json:"pair_address"`
	DexID          string    `json:"dex"`
	PoolCreatedAt  int64     `json:"pool_created_at"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// SecurityRisk is one named risk from the audit report.
type SecurityRisk struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Score       int    `json:"score"`
}

// MarketLP is the LP-lock breakdown for one market type.
type MarketLP struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// SecurityReport is the processed audit result for a token. It lives for one
// request only. A report with Score == UnknownSecurityScore and a non-empty
// Err means the audit source could not be reached.
type SecurityReport struct {
	Score                int                 `json:"score"`
	ScoreNormalised      int                 `json:"score_normalised"`
	Rugged               bool                `json:"rugged"`
	Risks                []SecurityRisk      `json:"risks"`
	LPLockedPct          float64             `json:"lp_locked_pct"`
	MarketLPBreakdown    map[string]MarketLP `json:"market_lp_breakdown,omitempty"`
	TotalHolders         int                 `json:"total_holders"`
	TotalMarkets         int                 `json:"total_markets"`
	TotalMarketLiquidity float64             `json:"total_market_liquidity"`
	InsidersDetected     int                 `json:"insiders_detected"`
	InsiderNetworks      int                 `json:"insider_networks"`
	MintAuthority        string              `json:"mint_authority,omitempty"`
	FreezeAuthority      string              `json:"freeze_authority,omitempty"`
	TokenName            string              `json:"token_name"`
	TokenSymbol          string              `json:"token_symbol"`
	CreatorBalance       float64             `json:"creator_balance"`
	HasActiveLockers     bool                `json:"has_active_lockers"`
	SummaryOnly          bool                `json:"summary_only,omitempty"`
	Err                  string              `json:"error,omitempty"`
}

// TokenStats merges a market snapshot with its security report, the shape the
// web layer and the analysis pipeline both consume.
type TokenStats struct {
	TokenMarketSnapshot
	Security        SecurityReport `json:"rugcheck"`
	RugcheckScore   int            `json:"rugcheck_score"`
	RiskLevel       string         `json:"rugcheck_risk_level"`
	LPLockedPct     float64        `json:"lp_locked_pct"`
	LiquidityLocked bool           `json:"liquidity_locked"`
	TotalHolders    int            `json:"total_holders"`
	TotalMarkets    int            `json:"total_markets"`
}

// AnalysisTexts carries the free-text output of each analysis angle.
// Technical and Insights are always produced (live or fallback).
// Visualization is empty unless a chart was supplied; Mathematical may be
// empty on the all-simulated path. Empty means "angle absent" to the
// synthesizer.
type AnalysisTexts struct {
	Technical     string `json:"technical"`
	Insights      string `json:"insights"`
	Visualization string `json:"visualization,omitempty"`
	Mathematical  string `json:"mathematical,omitempty"`
}

// Trading signal labels produced by signal synthesis.
const (
	SignalStrongBuy  = "STRONG_BUY"
	SignalBuy        = "BUY"
	SignalHold       = "HOLD"
	SignalSell       = "SELL"
	SignalStrongSell = "STRONG_SELL"
)

// SynthesizedSignal is the discrete trading signal distilled from the
// analysis texts. Recomputed on every call, never stored.
type SynthesizedSignal struct {
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
}

// PriceTargetRecommendation is the scored "recommended exit" result.
// Percentage is always one of 5, 10, 15 or 20.
type PriceTargetRecommendation struct {
	Percentage int     `json:"percentage"`
	Price      float64 `json:"price"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// Candle is one OHLCV interval.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// TradeEntry is one entry of the recent-trades feed. The feed is synthesized
// from current market activity, real per-trade data needs chain indexing.
type TradeEntry struct {
	Type         string  `json:"type"`
	Price        float64 `json:"price"`
	AmountUSD    float64 `json:"amount_usd"`
	AmountTokens float64 `json:"amount_tokens"`
	Timestamp    int64   `json:"timestamp"`
	TxHash       string  `json:"tx_hash"`
}

// ChartUpload is a user-supplied chart image for visual analysis.
type ChartUpload struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}
