package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickscode/Solara-Beta/internal/analysis"
	"github.com/rickscode/Solara-Beta/internal/bot"
	"github.com/rickscode/Solara-Beta/internal/history"
	"github.com/rickscode/Solara-Beta/internal/models"
	"github.com/rickscode/Solara-Beta/internal/notify"
	"github.com/rickscode/Solara-Beta/internal/wallet"
)

const testAddress = "Mint111111111111111111111111111111111111111"

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}

type stubMarket struct {
	snapshot *models.TokenMarketSnapshot
	stats    *models.TokenStats
	report   *models.SecurityReport
	err      error
}

func (m *stubMarket) Snapshot(context.Context, string) (*models.TokenMarketSnapshot, error) {
	return m.snapshot, m.err
}

func (m *stubMarket) TokenStats(context.Context, string) (*models.TokenStats, error) {
	return m.stats, m.err
}

func (m *stubMarket) Security(context.Context, string) *models.SecurityReport {
	return m.report
}

func (m *stubMarket) PrimaryDex(context.Context, string) string {
	return "jupiter"
}

type stubAnalysis struct {
	result *analysis.Result
	err    error
}

func (a *stubAnalysis) Analyze(context.Context, string, *models.ChartUpload) (*analysis.Result, error) {
	return a.result, a.err
}

func newTestServer(t *testing.T, market MarketData, analysisSvc AnalysisService) *Server {
	t.Helper()
	buffer := bot.NewLogBuffer()
	runner := bot.NewRunner(t.TempDir(), buffer, nopLogger{})
	return New(
		market,
		analysisSvc,
		runner,
		buffer,
		notify.Noop{},
		history.NewMemoryStore(),
		nil,
		filepath.Join(t.TempDir(), "bot-config.json"),
		nopLogger{},
	)
}

type stubWallet struct {
	balance *wallet.Balance
	err     error
}

func (w *stubWallet) Balance(context.Context) (*wallet.Balance, error) {
	return w.balance, w.err
}

func do(t *testing.T, s *Server, method, path string, body []byte) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func marketWithData() *stubMarket {
	snapshot := &models.TokenMarketSnapshot{
		Address:        testAddress,
		Symbol:         "TEST",
		PriceUSD:       1.5,
		PriceSOL:       0.0075,
		PriceChange24h: 4.2,
		Volume24h:      120_000,
		Liquidity:      300_000,
	}
	return &stubMarket{
		snapshot: snapshot,
		stats: &models.TokenStats{
			TokenMarketSnapshot: *snapshot,
			Security:            models.SecurityReport{Score: 3},
			RiskLevel:           "GOOD",
		},
		report: &models.SecurityReport{Score: 3, LPLockedPct: 95},
	}
}

func TestHandlePrice(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/price/"+testAddress, nil)

	assert.Equal(t, true, payload["success"])
	assert.InDelta(t, 1.5, payload["price_usd"], 1e-9)
	assert.Equal(t, "dexscreener", payload["source"])
}

func TestHandlePrice_NoData(t *testing.T) {
	s := newTestServer(t, &stubMarket{err: errors.New("no pairs found")}, &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/price/"+testAddress, nil)

	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "No price data available", payload["error"])
}

func TestHandleTokenStats_InvalidAddress(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/token-stats/short", nil)

	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "INVALID_ADDRESS", payload["error_code"])
}

func TestHandleTokenStats_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"token not found", errors.New("no pairs found"), "TOKEN_NOT_FOUND"},
		{"timeout", context.DeadlineExceeded, "API_TIMEOUT"},
		{"connection", errors.New("connection refused"), "CONNECTION_ERROR"},
		{"rugcheck", errors.New("rugcheck unavailable"), "RUGCHECK_ERROR"},
		{"unknown", errors.New("boom"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &stubMarket{err: tt.err}, &stubAnalysis{})
			payload := do(t, s, http.MethodGet, "/api/token-stats/"+testAddress, nil)
			assert.Equal(t, false, payload["success"])
			assert.Equal(t, tt.wantCode, payload["error_code"])
		})
	}
}

func TestHandleTokenStats(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/token-stats/"+testAddress, nil)

	require.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, "GOOD", data["rugcheck_risk_level"])
}

func TestHandleTrades(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/trades/"+testAddress, nil)

	require.Equal(t, true, payload["success"])
	trades := payload["trades"].([]interface{})
	assert.Len(t, trades, 20)
}

func TestHandleChart(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/chart/"+testAddress, nil)

	require.Equal(t, true, payload["success"])
	candles := payload["candles"].([]interface{})
	assert.Len(t, candles, 24)
}

func TestHandleChart_PrefersRecordedHistory(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})

	base := time.Now().Add(-25 * time.Hour)
	for i := 0; i < 25; i++ {
		require.NoError(t, s.store.RecordPricePoint(context.Background(), &history.PricePoint{
			Address:    testAddress,
			Symbol:     "TEST",
			PriceUSD:   1.0 + float64(i)*0.01,
			Volume24h:  120_000,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	payload := do(t, s, http.MethodGet, "/api/chart/"+testAddress, nil)
	require.Equal(t, true, payload["success"])
	candles := payload["candles"].([]interface{})
	require.Len(t, candles, 24)

	// Oldest first, each candle opening at the previous observation.
	oldest := candles[0].(map[string]interface{})
	assert.InDelta(t, 1.0, oldest["open"], 1e-9)
	newest := candles[len(candles)-1].(map[string]interface{})
	assert.InDelta(t, 1.23, newest["open"], 1e-9)
	assert.InDelta(t, 1.24, newest["close"], 1e-9)
}

func TestHandleRugcheck(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/rugcheck-data/"+testAddress, nil)

	require.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]interface{})
	assert.InDelta(t, 95.0, data["lp_locked_pct"], 1e-9)
}

func TestHandleAnalysis(t *testing.T) {
	result := &analysis.Result{
		OverallSignal: models.SignalBuy,
		Confidence:    0.8,
		CurrentPrice:  1.5,
	}
	s := newTestServer(t, marketWithData(), &stubAnalysis{result: result})
	payload := do(t, s, http.MethodGet, "/api/llm-analysis/"+testAddress, nil)

	require.Equal(t, true, payload["success"])
	got := payload["analysis"].(map[string]interface{})
	assert.Equal(t, "BUY", got["overall_signal"])
}

func TestHandleWalletBalance_NotConfigured(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/wallet/balance", nil)

	assert.Equal(t, false, payload["success"])
	assert.InDelta(t, 0.0, payload["balance"], 1e-9)
	assert.Equal(t, "Wallet not configured. Please complete setup first.", payload["error"])
}

func TestHandleWalletBalance(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	s.wallet = &stubWallet{balance: &wallet.Balance{
		SOL:      0.014556,
		Lamports: 14556317,
		Address:  "WaLLet111111111111111111111111111111111111",
	}}

	payload := do(t, s, http.MethodGet, "/api/wallet/balance", nil)

	require.Equal(t, true, payload["success"])
	assert.InDelta(t, 0.014556, payload["balance"], 1e-9)
	assert.InDelta(t, 14556317, payload["balance_lamports"], 1e-9)
	assert.Equal(t, "WaLLet111111111111111111111111111111111111", payload["wallet_address"])
}

func TestHandleWalletBalance_RPCFailure(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	s.wallet = &stubWallet{err: errors.New("rpc unreachable")}

	payload := do(t, s, http.MethodGet, "/api/wallet/balance", nil)

	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "Connection error")
}

func TestHandleBotStatus_NotRunning(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodGet, "/api/bot/status", nil)

	assert.Equal(t, false, payload["running"])
	assert.NotNil(t, payload["config"])
}

func TestHandleBotStop_NotRunning(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	payload := do(t, s, http.MethodPost, "/api/bot/stop", nil)

	assert.Equal(t, false, payload["success"])
}

func TestHandleSaveConfig(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})

	body, _ := json.Marshal(map[string]interface{}{
		"token_address":        testAddress,
		"token_symbol":         "TEST",
		"target_buy_price":     0.001,
		"target_sell_price":    0.002,
		"amount_to_trade":      0.5,
		"stop_loss_percentage": 15,
		"slippage_bps":         300,
	})
	payload := do(t, s, http.MethodPost, "/api/bot/save-config", body)

	require.Equal(t, true, payload["success"])
	assert.Equal(t, false, payload["restarted"])

	// Config round-trips through the reload endpoint.
	loaded := do(t, s, http.MethodGet, "/api/bot/config", nil)
	cfg := loaded["config"].(map[string]interface{})
	assert.Equal(t, testAddress, cfg["token_address"])
	assert.InDelta(t, 300, cfg["slippage_bps"], 1e-9)
}

func TestHandleSaveConfig_Invalid(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})

	body, _ := json.Marshal(map[string]interface{}{
		"token_address":    testAddress,
		"target_buy_price": 0.001,
	})
	payload := do(t, s, http.MethodPost, "/api/bot/save-config", body)
	assert.Equal(t, false, payload["success"])
}

func TestHandleTerminal(t *testing.T) {
	s := newTestServer(t, marketWithData(), &stubAnalysis{})
	s.buffer.Append("hello", "info")

	payload := do(t, s, http.MethodGet, "/api/terminal/output", nil)
	require.Equal(t, true, payload["success"])
	assert.Len(t, payload["output"].([]interface{}), 1)

	do(t, s, http.MethodPost, "/api/terminal/clear", nil)
	payload = do(t, s, http.MethodGet, "/api/terminal/output", nil)
	assert.Empty(t, payload["output"])
}
