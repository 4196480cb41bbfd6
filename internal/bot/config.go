package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// DexJupiter and DexRaydium select which trading script the runner
	// launches.
	DexJupiter = "jupiter"
	DexRaydium = "raydium"

	defaultSlippageBps = 200
	minSlippageBps     = 50
	maxSlippageBps     = 1000
)

// Config is the trading bot configuration persisted to bot-config.json. The
// running bot watches this file via nodemon, so every save takes effect on
// the live process.
type Config struct {
	TokenAddress       string  `json:"token_address"`
	TokenSymbol        string  `json:"token_symbol"`
	TargetBuyPrice     float64 `json:"target_buy_price"`
	TargetSellPrice    float64 `json:"target_sell_price"`
	StopLossPercentage float64 `json:"stop_loss_percentage"`
	AmountToTrade      float64 `json:"amount_to_trade"`
	SlippageBps        int     `json:"slippage_bps"`
	DexType            string  `json:"dex_type"`
	LastUpdated        string  `json:"last_updated"`
}

// DefaultConfig returns the config used when no file exists yet.
func DefaultConfig() *Config {
	return &Config{
		SlippageBps: defaultSlippageBps,
		DexType:     DexJupiter,
	}
}

// LoadConfig reads the bot config from path. A missing file yields the
// defaults, not an error; a corrupt file is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read bot config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bot config: %w", err)
	}
	if cfg.SlippageBps == 0 {
		cfg.SlippageBps = defaultSlippageBps
	}
	if cfg.DexType == "" {
		cfg.DexType = DexJupiter
	}
	return cfg, nil
}

// Save validates the config, stamps LastUpdated and writes it to path.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bot config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bot config: %w", err)
	}
	return nil
}

// Validate checks the trading parameters before they reach the bot.
func (c *Config) Validate() error {
	if c.TokenAddress == "" {
		return fmt.Errorf("token_address is required")
	}
	if c.TargetBuyPrice <= 0 {
		return fmt.Errorf("target_buy_price must be positive")
	}
	if c.TargetSellPrice <= 0 {
		return fmt.Errorf("target_sell_price must be positive")
	}
	if c.TargetBuyPrice > c.TargetSellPrice {
		return fmt.Errorf("target_buy_price must not exceed target_sell_price")
	}
	if c.AmountToTrade <= 0 {
		return fmt.Errorf("amount_to_trade must be positive")
	}
	if c.StopLossPercentage <= 0 || c.StopLossPercentage >= 100 {
		return fmt.Errorf("stop_loss_percentage must be between 0 and 100")
	}
	if c.SlippageBps < minSlippageBps || c.SlippageBps > maxSlippageBps {
		return fmt.Errorf("slippage_bps must be between %d and %d", minSlippageBps, maxSlippageBps)
	}
	if c.DexType != DexJupiter && c.DexType != DexRaydium {
		return fmt.Errorf("dex_type must be %q or %q", DexJupiter, DexRaydium)
	}
	return nil
}
