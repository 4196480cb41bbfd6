package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickscode/Solara-Beta/internal/analysis"
	"github.com/rickscode/Solara-Beta/internal/bot"
	"github.com/rickscode/Solara-Beta/internal/history"
	"github.com/rickscode/Solara-Beta/internal/models"
	"github.com/rickscode/Solara-Beta/internal/notify"
	"github.com/rickscode/Solara-Beta/internal/wallet"
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// MarketData provides the market and security lookups the handlers serve.
type MarketData interface {
	Snapshot(ctx context.Context, address string) (*models.TokenMarketSnapshot, error)
	TokenStats(ctx context.Context, address string) (*models.TokenStats, error)
	Security(ctx context.Context, address string) *models.SecurityReport
	PrimaryDex(ctx context.Context, address string) string
}

// AnalysisService runs the multi-model token analysis.
type AnalysisService interface {
	Analyze(ctx context.Context, address string, chart *models.ChartUpload) (*analysis.Result, error)
}

// WalletReader reports the trading wallet's SOL balance. A nil reader means
// no wallet key is configured.
type WalletReader interface {
	Balance(ctx context.Context) (*wallet.Balance, error)
}

// Server is the control panel HTTP API: bot lifecycle, terminal output,
// market data and AI analysis.
type Server struct {
	market        MarketData
	analysis      AnalysisService
	runner        *bot.Runner
	buffer        *bot.LogBuffer
	notifier      notify.Notifier
	store         history.Store
	wallet        WalletReader
	botConfigPath string
	logger        Logger
}

// New creates the API server.
func New(
	market MarketData,
	analysisSvc AnalysisService,
	runner *bot.Runner,
	buffer *bot.LogBuffer,
	notifier notify.Notifier,
	store history.Store,
	walletReader WalletReader,
	botConfigPath string,
	logger Logger,
) *Server {
	return &Server{
		market:        market,
		analysis:      analysisSvc,
		runner:        runner,
		buffer:        buffer,
		notifier:      notifier,
		store:         store,
		wallet:        walletReader,
		botConfigPath: botConfigPath,
		logger:        logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/bot/start", s.handleBotStart).Methods(http.MethodPost)
	r.HandleFunc("/api/bot/stop", s.handleBotStop).Methods(http.MethodPost)
	r.HandleFunc("/api/bot/status", s.handleBotStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/bot/config", s.handleBotConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/bot/save-config", s.handleSaveConfig).Methods(http.MethodPost)
	r.HandleFunc("/api/bot/close-position", s.handleClosePosition).Methods(http.MethodPost)

	r.HandleFunc("/api/wallet/balance", s.handleWalletBalance).Methods(http.MethodGet)

	r.HandleFunc("/api/terminal/output", s.handleTerminalOutput).Methods(http.MethodGet)
	r.HandleFunc("/api/terminal/clear", s.handleTerminalClear).Methods(http.MethodPost)

	r.HandleFunc("/api/price/{address}", s.handlePrice).Methods(http.MethodGet)
	r.HandleFunc("/api/token-stats/{address}", s.handleTokenStats).Methods(http.MethodGet)
	r.HandleFunc("/api/trades/{address}", s.handleTrades).Methods(http.MethodGet)
	r.HandleFunc("/api/chart/{address}", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/rugcheck-data/{address}", s.handleRugcheck).Methods(http.MethodGet)
	r.HandleFunc("/api/llm-analysis/{address}", s.handleAnalysis).Methods(http.MethodGet, http.MethodPost)

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, message string) {
	s.writeJSON(w, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func (s *Server) failWithCode(w http.ResponseWriter, message, code string) {
	s.writeJSON(w, map[string]interface{}{
		"success":    false,
		"error":      message,
		"error_code": code,
	})
}

// validAddress checks the base58 length envelope of Solana addresses.
func validAddress(address string) bool {
	return len(address) >= 32 && len(address) <= 44
}

// errorCode buckets errors into the codes the frontend understands.
func errorCode(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no pairs found"):
		return "TOKEN_NOT_FOUND"
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return "API_TIMEOUT"
	case strings.Contains(msg, "connection"):
		return "CONNECTION_ERROR"
	case strings.Contains(msg, "rugcheck"):
		return "RUGCHECK_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
