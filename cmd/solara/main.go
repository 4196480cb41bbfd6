package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rickscode/Solara-Beta/internal/ai"
	"github.com/rickscode/Solara-Beta/internal/ai/groq"
	"github.com/rickscode/Solara-Beta/internal/analysis"
	"github.com/rickscode/Solara-Beta/internal/bot"
	"github.com/rickscode/Solara-Beta/internal/configs"
	"github.com/rickscode/Solara-Beta/internal/history"
	"github.com/rickscode/Solara-Beta/internal/market"
	"github.com/rickscode/Solara-Beta/internal/market/dexscreener"
	"github.com/rickscode/Solara-Beta/internal/market/rugcheck"
	"github.com/rickscode/Solara-Beta/internal/notify"
	"github.com/rickscode/Solara-Beta/internal/server"
	"github.com/rickscode/Solara-Beta/internal/wallet"
)

var (
	flagconf string

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))
)

func init() {
	flag.StringVar(&flagconf, "conf", "config.json", "config path, eg: -conf config.json")
}

func main() {
	flag.Parse()

	// Secrets live in .env during development; a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	config, err := configs.Load(flagconf)
	if err != nil {
		log.Error("Error loading config", "err", err)
		return
	}

	fetcher := market.NewFetcher(
		dexscreener.NewClient(),
		rugcheck.NewClient(log),
		log,
	)

	var analyzer ai.Analyzer
	if config.AIConfig.APIKey != "" {
		analyzer = groq.NewGroqAnalyzer(config.AIConfig.APIKey, "")
	} else {
		log.Warn("no Groq API key configured, analysis runs simulated")
	}

	analysisSvc := analysis.NewService(fetcher, analyzer, log)

	var store history.Store
	if config.Database.ConnStr != "" {
		store, err = history.NewPostgresStore(config.Database.ConnStr)
		if err != nil {
			log.Error("Error creating history store", "err", err)
			return
		}
	} else {
		store = history.NewMemoryStore()
		log.Debug("no database configured, using in-memory price history")
	}
	defer store.Close()

	var notifier notify.Notifier = notify.Noop{}
	if config.Telegram.BotToken != "" && config.Telegram.ChatID != "" {
		notifier = notify.NewTelegram(config.Telegram.BotToken, config.Telegram.ChatID, log)
	}

	var walletReader server.WalletReader
	if config.Wallet.PrivateKey != "" {
		walletClient, err := wallet.NewClient(config.Wallet.PrivateKey, config.Wallet.RPCURL)
		if err != nil {
			log.Error("Error configuring wallet", "err", err)
			return
		}
		walletReader = walletClient
		log.Info("wallet configured", "address", walletClient.Address())
	} else {
		log.Debug("no wallet key configured, balance endpoint disabled")
	}

	buffer := bot.NewLogBuffer()
	runner := bot.NewRunner(config.BotDir, buffer, log)

	api := server.New(
		fetcher,
		analysisSvc,
		runner,
		buffer,
		notifier,
		store,
		walletReader,
		config.BotConfigPath(),
		log,
	)

	log.Info("control panel listening", "addr", config.ListenAddr)
	if err := http.ListenAndServe(config.ListenAddr, api.Router()); err != nil {
		log.Error("server exited", "err", err)
	}
}
