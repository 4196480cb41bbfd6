package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mr-tron/base58"

	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

const (
	defaultRPCURL  = "https://api.mainnet-beta.solana.com"
	lamportsPerSOL = 1_000_000_000
	balanceTimeout = 10 * time.Second
)

// Balance is the trading wallet's SOL holdings at a point in time.
type Balance struct {
	SOL      float64 `json:"sol"`
	Lamports int64   `json:"lamports"`
	Address  string  `json:"address"`
}

// Client reads the trading wallet's balance over Solana JSON-RPC. The wallet
// address is derived once from the configured private key; the key itself
// never leaves the process.
type Client struct {
	rpcURL     string
	address    string
	httpClient *resty.Client
}

// NewClient derives the wallet address from the base58 private key and
// targets the given RPC endpoint, mainnet-beta when empty.
func NewClient(privateKey, rpcURL string) (*Client, error) {
	address, err := AddressFromPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	if rpcURL == "" {
		rpcURL = defaultRPCURL
	}
	return &Client{
		rpcURL:     rpcURL,
		address:    address,
		httpClient: request.Request,
	}, nil
}

// AddressFromPrivateKey derives the base58 wallet address from a base58
// encoded ed25519 key. Both the 64-byte secret-key form and the 32-byte seed
// form are accepted.
func AddressFromPrivateKey(privateKey string) (string, error) {
	raw, err := base58.Decode(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid wallet private key: %w", err)
	}

	var pub ed25519.PublicKey
	switch len(raw) {
	case ed25519.PrivateKeySize:
		pub = ed25519.PrivateKey(raw).Public().(ed25519.PublicKey)
	case ed25519.SeedSize:
		pub = ed25519.NewKeyFromSeed(raw).Public().(ed25519.PublicKey)
	default:
		return "", fmt.Errorf("invalid wallet private key: got %d bytes, want %d or %d",
			len(raw), ed25519.SeedSize, ed25519.PrivateKeySize)
	}
	return base58.Encode(pub), nil
}

// Address returns the wallet's public address.
func (c *Client) Address() string {
	return c.address
}

// Balance fetches the current SOL balance via the getBalance RPC method.
func (c *Client) Balance(ctx context.Context) (*Balance, error) {
	reqCtx, cancel := context.WithTimeout(ctx, balanceTimeout)
	defer cancel()

	var result struct {
		Result struct {
			Value int64 `json:"value"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		SetBody(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "getBalance",
			"params":  []interface{}{c.address},
		}).
		SetResult(&result).
		Post(c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach solana rpc: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("solana rpc returned status %d", resp.StatusCode())
	}
	if result.Error != nil {
		return nil, fmt.Errorf("solana rpc error %d: %s", result.Error.Code, result.Error.Message)
	}

	lamports := result.Result.Value
	return &Balance{
		SOL:      math.Round(float64(lamports)/lamportsPerSOL*1e6) / 1e6,
		Lamports: lamports,
		Address:  c.address,
	}, nil
}
