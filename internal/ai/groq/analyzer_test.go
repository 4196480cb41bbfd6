package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickscode/Solara-Beta/internal/models"
)

func testStats() *models.TokenStats {
	return &models.TokenStats{
		TokenMarketSnapshot: models.TokenMarketSnapshot{
			Address:        "Mint111111111111111111111111111111111111111",
			Symbol:         "TEST",
			PriceUSD:       0.0042,
			PriceChange24h: 9.5,
			Volume24h:      150_000,
			Liquidity:      250_000,
			MarketCap:      1_000_000,
			Buys24h:        320,
			Sells24h:       180,
		},
		Security:    models.SecurityReport{Score: 3},
		LPLockedPct: 95,
	}
}

// stubCompletions records the chat requests and answers with fixed content.
func stubCompletions(t *testing.T, content string) (*GroqAnalyzer, *[]map[string]interface{}) {
	t.Helper()

	var requests []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, body)

		fmt.Fprintf(w, `{"choices": [{"message": {"role": "assistant", "content": %q}}]}`, content)
	}))
	t.Cleanup(srv.Close)

	return NewGroqAnalyzer("test-key", srv.URL), &requests
}

func TestTechnicalAnalysis(t *testing.T) {
	analyzer, requests := stubCompletions(t, "**Trading Signal**: BUY")

	text, err := analyzer.TechnicalAnalysis(context.Background(), testStats(), "")
	require.NoError(t, err)
	assert.Equal(t, "**Trading Signal**: BUY", text)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, technicalModel, req["model"])

	messages := req["messages"].([]interface{})
	require.Len(t, messages, 2)
	user := messages[1].(map[string]interface{})["content"].(string)
	assert.Contains(t, user, "Mint111111111111111111111111111111111111111")
	assert.Contains(t, user, "Trading Signal")
}

func TestTechnicalAnalysis_FoldsVisualSummary(t *testing.T) {
	analyzer, requests := stubCompletions(t, "ok")

	_, err := analyzer.TechnicalAnalysis(context.Background(), testStats(), "Chart shows an ascending triangle")
	require.NoError(t, err)

	user := (*requests)[0]["messages"].([]interface{})[1].(map[string]interface{})["content"].(string)
	assert.Contains(t, user, "ascending triangle")
}

func TestAngleModelRouting(t *testing.T) {
	analyzer, requests := stubCompletions(t, "ok")
	ctx := context.Background()
	stats := testStats()

	_, err := analyzer.InsightsAnalysis(ctx, stats)
	require.NoError(t, err)
	_, err = analyzer.VisualizationAnalysis(ctx, stats, &models.ChartUpload{Filename: "chart.png"})
	require.NoError(t, err)
	_, err = analyzer.MathematicalAnalysis(ctx, stats)
	require.NoError(t, err)

	require.Len(t, *requests, 3)
	assert.Equal(t, insightsModel, (*requests)[0]["model"])
	assert.Equal(t, visualizationModel, (*requests)[1]["model"])
	assert.Equal(t, mathematicalModel, (*requests)[2]["model"])
}

func TestCreateChatCompletion_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))
	t.Cleanup(srv.Close)

	analyzer := NewGroqAnalyzer("test-key", srv.URL)
	_, err := analyzer.TechnicalAnalysis(context.Background(), testStats(), "")
	require.Error(t, err)
}
