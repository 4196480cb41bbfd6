package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rickscode/Solara-Beta/internal/market/dexscreener"
	"github.com/rickscode/Solara-Beta/internal/market/rugcheck"
	"github.com/rickscode/Solara-Beta/internal/models"
	"github.com/rickscode/Solara-Beta/internal/risk"
	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

const (
	// SOL is the native asset of the target network; pair selection and
	// symbol extraction both key off it.
	nativeSymbol = "SOL"

	solMint          = "So11111111111111111111111111111111111111112"
	solPriceTimeout  = 5 * time.Second
	fallbackSOLPrice = 200.0
)

// var so package tests can point it at a stub server.
var jupiterPriceURL = "https://price.jup.ag/v4/price"

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Fetcher merges DexScreener market data with the RugCheck security report.
// All methods are pure functions of the upstream payloads; fetch errors are
// logged and converted to structured values, never raised past this layer.
type Fetcher struct {
	prices     *dexscreener.Client
	audits     *rugcheck.Client
	httpClient *resty.Client
	logger     Logger
}

// NewFetcher creates a market data fetcher.
func NewFetcher(prices *dexscreener.Client, audits *rugcheck.Client, logger Logger) *Fetcher {
	return &Fetcher{
		prices:     prices,
		audits:     audits,
		httpClient: request.Request,
		logger:     logger,
	}
}

// Snapshot fetches the current market snapshot for a token. The address may
// be a token mint or a pair address; pair lookup is tried first since chart
// URLs usually carry pair addresses.
func (f *Fetcher) Snapshot(ctx context.Context, address string) (*models.TokenMarketSnapshot, error) {
	pairs, err := f.prices.PairsByPairAddress(ctx, address)
	if err != nil {
		pairs, err = f.prices.TokenPairs(ctx, address)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairs: %w", err)
	}

	pair := dexscreener.SelectPrimaryPair(pairs, nativeSymbol)
	if pair == nil {
		return nil, fmt.Errorf("no pairs found")
	}

	symbol, name := dexscreener.TokenIdentity(pair, nativeSymbol)

	priceUSD := pair.PriceUSDFloat()
	priceSOL := 0.0
	if solUSD := f.solPrice(ctx); solUSD > 0 {
		priceSOL = priceUSD / solUSD
	}

	return &models.TokenMarketSnapshot{
		Address:        address,
		Symbol:         symbol,
		Name:           name,
		PriceUSD:       priceUSD,
		PriceSOL:       priceSOL,
		PriceChange5m:  pair.PriceChange.M5,
		PriceChange1h:  pair.PriceChange.H1,
		PriceChange6h:  pair.PriceChange.H6,
		PriceChange24h: pair.PriceChange.H24,
		Volume24h:      pair.Volume.H24,
		Liquidity:      pair.LiquidityUSD(),
		MarketCap:      pair.MarketCap,
		FDV:            pair.FDV,
		Buys24h:        pair.Txns.H24.Buys,
		Sells24h:       pair.Txns.H24.Sells,
		PairAddress:    pair.PairAddress,
		DexID:          pair.DexID,
		PoolCreatedAt:  pair.PairCreatedAt,
		FetchedAt:      time.Now(),
	}, nil
}

// Security fetches the audit report. Never fails: unreachable sources yield
// the sentinel report with score 999.
func (f *Fetcher) Security(ctx context.Context, address string) *models.SecurityReport {
	return f.audits.Report(ctx, address)
}

// TokenStats fetches and merges the market snapshot with the security
// report. Snapshot failure is the only error path; a failed audit degrades
// to the sentinel report.
func (f *Fetcher) TokenStats(ctx context.Context, address string) (*models.TokenStats, error) {
	snapshot, err := f.Snapshot(ctx, address)
	if err != nil {
		f.logger.Error("failed to fetch market snapshot", "token", address, "error", err)
		return nil, err
	}

	report := f.Security(ctx, address)
	if report.TokenSymbol != "" {
		snapshot.Symbol = report.TokenSymbol
	}
	if report.TokenName != "" {
		snapshot.Name = report.TokenName
	}

	return &models.TokenStats{
		TokenMarketSnapshot: *snapshot,
		Security:            *report,
		RugcheckScore:       report.Score,
		RiskLevel:           risk.Level(report.Score),
		LPLockedPct:         report.LPLockedPct,
		LiquidityLocked:     rugcheck.Locked(report),
		TotalHolders:        report.TotalHolders,
		TotalMarkets:        report.TotalMarkets,
	}, nil
}

// PrimaryDex reports which DEX carries the token's primary pair, used to
// pick the trading script. Anything that is not raydium maps to jupiter,
// including fetch failures.
func (f *Fetcher) PrimaryDex(ctx context.Context, address string) string {
	snapshot, err := f.Snapshot(ctx, address)
	if err != nil {
		f.logger.Error("failed to detect primary dex", "token", address, "error", err)
		return "jupiter"
	}
	if snapshot.DexID == "raydium" {
		return "raydium"
	}
	return "jupiter"
}

// solPrice fetches the native asset's USD price for conversion, with a fixed
// fallback when the price API is unreachable.
func (f *Fetcher) solPrice(ctx context.Context) float64 {
	reqCtx, cancel := context.WithTimeout(ctx, solPriceTimeout)
	defer cancel()

	url := fmt.Sprintf("%s?ids=%s", jupiterPriceURL, solMint)
	resp, err := f.httpClient.R().SetContext(reqCtx).Get(url)
	if err != nil || resp.StatusCode() != http.StatusOK {
		return fallbackSOLPrice
	}

	var result struct {
		Data map[string]struct {
			Price float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fallbackSOLPrice
	}
	if entry, ok := result.Data[solMint]; ok && entry.Price > 0 {
		return entry.Price
	}
	return fallbackSOLPrice
}
