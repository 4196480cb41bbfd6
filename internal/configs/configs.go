package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the control panel configuration, loaded from a JSON file with
// environment overrides for the secrets.
type Config struct {
	// ListenAddr is the HTTP bind address of the control panel.
	ListenAddr string `json:"listen_addr"`

	// BotDir holds the Node.js trading scripts and bot-config.json.
	BotDir string `json:"bot_dir"`

	Database Database `json:"database"`

	AIConfig AIConfig `json:"ai_config"`

	Telegram Telegram `json:"telegram"`

	Wallet Wallet `json:"wallet"`
}

type AIConfig struct {
	APIKey string `json:"api_key"` // Groq API key, overridable via GROQ_API_KEY
}

type Database struct {
	ConnStr string `json:"conn_str"` // empty selects the in-memory history store
}

type Telegram struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

type Wallet struct {
	PrivateKey string `json:"private_key"` // overridable via WALLET_PRIVATE_KEY
	RPCURL     string `json:"rpc_url"`     // overridable via RPC_URL, empty selects mainnet-beta
}

// Load reads the config file and applies environment overrides. A missing
// file is not an error, the defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	config := &Config{
		ListenAddr: ":5000",
		BotDir:     ".",
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		config.AIConfig.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.ConnStr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		config.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		config.Telegram.ChatID = v
	}
	if v := os.Getenv("WALLET_PRIVATE_KEY"); v != "" {
		config.Wallet.PrivateKey = v
	}
	if v := os.Getenv("RPC_URL"); v != "" {
		config.Wallet.RPCURL = v
	}

	return config, nil
}

// BotConfigPath is where the trading bot's watched config file lives.
func (c *Config) BotConfigPath() string {
	return filepath.Join(c.BotDir, "bot-config.json")
}
