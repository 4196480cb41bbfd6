package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rickscode/Solara-Beta/internal/models"
	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

const (
	defaultBaseURL = "https://api.rugcheck.xyz/v1"

	reportTimeout  = 10 * time.Second
	summaryTimeout = 5 * time.Second

	// A token counts as liquidity-locked once at least half of its LP is
	// locked, or when the report lists any active locker contract. The 50%
	// threshold matches the audit site's own display logic.
	lockedThresholdPct = 50
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Client talks to the RugCheck audit API. All fetch failures are absorbed
// into a sentinel report; the client never returns an error to callers.
type Client struct {
	baseURL    string
	httpClient *resty.Client
	logger     Logger
}

// NewClient creates a RugCheck client backed by the shared resty client.
func NewClient(logger Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: request.Request,
		logger:     logger,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string, logger Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: request.Request,
		logger:     logger,
	}
}

// lpInfo mirrors the per-market lp block of the full report. Everything is
// optional upstream.
type lpInfo struct {
	LPLockedPct float64 `json:"lpLockedPct"`
	LPLockedUSD float64 `json:"lpLockedUSD"`
	BaseUSD     float64 `json:"baseUSD"`
	QuoteUSD    float64 `json:"quoteUSD"`
}

// Market is one constituent market of the audited token.
type Market struct {
	MarketType string `json:"marketType"`
	LP         lpInfo `json:"lp"`
}

type fullReport struct {
	Score                *int                       `json:"score"`
	ScoreNormalised      *int                       `json:"score_normalised"`
	Rugged               bool                       `json:"rugged"`
	Risks                []models.SecurityRisk      `json:"risks"`
	Markets              []Market                   `json:"markets"`
	TotalHolders         int                        `json:"totalHolders"`
	TotalMarketLiquidity float64                    `json:"totalMarketLiquidity"`
	GraphInsiders        int                        `json:"graphInsidersDetected"`
	InsiderNetworks      []json.RawMessage          `json:"insiderNetworks"`
	CreatorBalance       float64                    `json:"creatorBalance"`
	Lockers              map[string]json.RawMessage `json:"lockers"`
	Token                struct {
		MintAuthority   string `json:"mintAuthority"`
		FreezeAuthority string `json:"freezeAuthority"`
	} `json:"token"`
	FileMeta struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"fileMeta"`
}

type summaryReport struct {
	Score           *int                  `json:"score"`
	ScoreNormalised *int                  `json:"score_normalised"`
	Risks           []models.SecurityRisk `json:"risks"`
	LPLockedPct     float64               `json:"lpLockedPct"`
}

// Report fetches the full audit report for a token, falling back to the
// lighter summary endpoint on any failure, and to a sentinel report when
// both are unreachable. The sentinel score propagates as worst-case.
func (c *Client) Report(ctx context.Context, tokenAddress string) *models.SecurityReport {
	report, err := c.fetchFull(ctx, tokenAddress)
	if err == nil {
		return report
	}
	c.logger.Error("full audit report failed, trying summary", "token", tokenAddress, "error", err)

	report, sumErr := c.fetchSummary(ctx, tokenAddress)
	if sumErr == nil {
		return report
	}
	c.logger.Error("audit summary failed", "token", tokenAddress, "error", sumErr)

	return &models.SecurityReport{
		Score:           models.UnknownSecurityScore,
		ScoreNormalised: 1,
		Err:             err.Error(),
	}
}

func (c *Client) fetchFull(ctx context.Context, tokenAddress string) (*models.SecurityReport, error) {
	reqCtx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/tokens/%s/report", c.baseURL, tokenAddress)
	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var raw fullReport
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	lpLocked := LPLockedPercent(raw.Markets)

	report := &models.SecurityReport{
		Score:                scoreOrSentinel(raw.ScoreNormalised, raw.Score),
		ScoreNormalised:      intOrDefault(raw.ScoreNormalised, 1),
		Rugged:               raw.Rugged,
		Risks:                raw.Risks,
		LPLockedPct:          lpLocked,
		MarketLPBreakdown:    MarketLPBreakdown(raw.Markets),
		TotalHolders:         raw.TotalHolders,
		TotalMarkets:         len(raw.Markets),
		TotalMarketLiquidity: raw.TotalMarketLiquidity,
		InsidersDetected:     raw.GraphInsiders,
		InsiderNetworks:      len(raw.InsiderNetworks),
		MintAuthority:        raw.Token.MintAuthority,
		FreezeAuthority:      raw.Token.FreezeAuthority,
		TokenName:            raw.FileMeta.Name,
		TokenSymbol:          raw.FileMeta.Symbol,
		CreatorBalance:       raw.CreatorBalance,
		HasActiveLockers:     len(raw.Lockers) > 0,
	}
	if report.Risks == nil {
		report.Risks = []models.SecurityRisk{}
	}
	return report, nil
}

func (c *Client) fetchSummary(ctx context.Context, tokenAddress string) (*models.SecurityReport, error) {
	reqCtx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/tokens/%s/report/summary", c.baseURL, tokenAddress)
	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var raw summaryReport
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}

	report := &models.SecurityReport{
		Score:           intOrDefault(raw.Score, models.UnknownSecurityScore),
		ScoreNormalised: intOrDefault(raw.ScoreNormalised, 1),
		Risks:           raw.Risks,
		LPLockedPct:     raw.LPLockedPct,
		SummaryOnly:     true,
	}
	if report.Risks == nil {
		report.Risks = []models.SecurityRisk{}
	}
	return report, nil
}

// LPLockedPercent computes the LP-lock percentage across constituent
// markets: a liquidity-weighted average when USD weights are available,
// otherwise the maximum single-market percentage observed.
func LPLockedPercent(markets []Market) float64 {
	var totalUSD, lockedUSD, maxPct float64
	for _, m := range markets {
		if m.LP.LPLockedPct > maxPct {
			maxPct = m.LP.LPLockedPct
		}
		totalUSD += m.LP.BaseUSD + m.LP.QuoteUSD
		lockedUSD += m.LP.LPLockedUSD
	}
	if totalUSD > 0 {
		return round2(lockedUSD / totalUSD * 100)
	}
	return round2(maxPct)
}

// MarketLPBreakdown reports LP lock per market type, first occurrence only.
func MarketLPBreakdown(markets []Market) map[string]models.MarketLP {
	readable := map[string]string{
		"pump_fun_amm":   "Pump Fun AMM",
		"meteora":        "Meteora",
		"meteoraDlmm":    "Meteora DLMM",
		"meteoraDamm":    "Meteora DAMM",
		"raydium_clmm":   "Raydium CLMM",
		"raydium_cpmm":   "Raydium CPMM",
		"raydium_amm":    "Raydium AMM",
		"orca_whirlpool": "Orca Whirlpool",
	}

	breakdown := make(map[string]models.MarketLP)
	for _, m := range markets {
		marketType := m.MarketType
		if marketType == "" {
			marketType = "unknown"
		}
		if _, seen := breakdown[marketType]; seen {
			continue
		}
		name, ok := readable[marketType]
		if !ok {
			name = marketType
		}
		breakdown[marketType] = models.MarketLP{
			Name:       name,
			Percentage: round2(m.LP.LPLockedPct),
		}
	}
	return breakdown
}

// Locked reports whether a token counts as liquidity-locked.
func Locked(report *models.SecurityReport) bool {
	return report.LPLockedPct >= lockedThresholdPct || report.HasActiveLockers
}

func scoreOrSentinel(normalised, raw *int) int {
	if normalised != nil {
		return *normalised
	}
	if raw != nil {
		return *raw
	}
	return models.UnknownSecurityScore
}

func intOrDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
