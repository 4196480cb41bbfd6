package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

const (
	defaultBaseURL = "https://api.dexscreener.com"
	fetchTimeout   = 10 * time.Second
)

// Token is one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// TxnCount holds buy/sell transaction counts for one window.
type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairTxns holds transaction counts per window.
type PairTxns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// Periods holds a float metric per time window.
type Periods struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// Liquidity is the pooled liquidity of a pair. Pointer fields upstream, so
// the whole struct may be absent.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Pair is one trading pair as returned by the DexScreener API. Every field
// is optional upstream; zero values stand in for anything missing.
type Pair struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     Token      `json:"baseToken"`
	QuoteToken    Token      `json:"quoteToken"`
	PriceNative   string     `json:"priceNative"`
	PriceUsd      string     `json:"priceUsd"`
	Txns          PairTxns   `json:"txns"`
	Volume        Periods    `json:"volume"`
	PriceChange   Periods    `json:"priceChange"`
	Liquidity     *Liquidity `json:"liquidity"`
	FDV           float64    `json:"fdv"`
	MarketCap     float64    `json:"marketCap"`
	PairCreatedAt int64      `json:"pairCreatedAt"`
}

// PriceUSDFloat parses the string price field, 0 when absent or malformed.
func (p *Pair) PriceUSDFloat() float64 {
	v, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0
	}
	return v
}

// LiquidityUSD returns pooled USD liquidity, 0 when the field is absent.
func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// Client talks to the DexScreener read-only API.
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

// NewClient creates a DexScreener client backed by the shared resty client.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: request.Request,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: request.Request,
	}
}

// TokenPairs fetches every known pair for a token mint address.
func (c *Client) TokenPairs(ctx context.Context, tokenAddress string) ([]Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, tokenAddress)
	return c.fetchPairs(ctx, url)
}

// PairsByPairAddress fetches pair data by pair address. DEXTools URLs carry
// pair addresses rather than token mints, so callers try this first.
func (c *Client) PairsByPairAddress(ctx context.Context, pairAddress string) ([]Pair, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/solana/%s", c.baseURL, pairAddress)
	return c.fetchPairs(ctx, url)
}

func (c *Client) fetchPairs(ctx context.Context, url string) ([]Pair, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := c.httpClient.R().SetContext(reqCtx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Pairs []Pair `json:"pairs"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Pairs) == 0 {
		return nil, fmt.Errorf("no pairs found")
	}

	return result.Pairs, nil
}

// SelectPrimaryPair picks the primary trading pair: the first pair with the
// network's native asset on either side, else the first pair returned.
func SelectPrimaryPair(pairs []Pair, nativeSymbol string) *Pair {
	if len(pairs) == 0 {
		return nil
	}
	for i := range pairs {
		if strings.Contains(pairs[i].BaseToken.Symbol, nativeSymbol) ||
			strings.Contains(pairs[i].QuoteToken.Symbol, nativeSymbol) {
			return &pairs[i]
		}
	}
	return &pairs[0]
}

// TokenIdentity extracts the traded token's symbol and name from whichever
// side of the pair is not the native asset. Falls back to a generic
// placeholder when both or neither side matches.
func TokenIdentity(pair *Pair, nativeSymbol string) (symbol, name string) {
	switch {
	case pair.BaseToken.Symbol != nativeSymbol && pair.BaseToken.Symbol != "":
		return pair.BaseToken.Symbol, pair.BaseToken.Name
	case pair.QuoteToken.Symbol != nativeSymbol && pair.QuoteToken.Symbol != "":
		return pair.QuoteToken.Symbol, pair.QuoteToken.Name
	default:
		return "TOKEN", ""
	}
}
