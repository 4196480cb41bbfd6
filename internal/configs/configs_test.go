package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.ListenAddr)
	assert.Equal(t, ".", cfg.BotDir)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": ":8080",
		"bot_dir": "/opt/bot",
		"ai_config": {"api_key": "from-file"}
	}`), 0o644))

	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("DATABASE_URL", "postgres://localhost/solara")
	t.Setenv("WALLET_PRIVATE_KEY", "wallet-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "from-env", cfg.AIConfig.APIKey, "env wins over file")
	assert.Equal(t, "postgres://localhost/solara", cfg.Database.ConnStr)
	assert.Equal(t, "wallet-key", cfg.Wallet.PrivateKey)
	assert.Equal(t, filepath.Join("/opt/bot", "bot-config.json"), cfg.BotConfigPath())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
