package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickscode/Solara-Beta/internal/analysis"
	"github.com/rickscode/Solara-Beta/internal/history"
	"github.com/rickscode/Solara-Beta/internal/models"
)

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	snapshot, err := s.market.Snapshot(r.Context(), address)
	if err != nil {
		s.fail(w, "No price data available")
		return
	}

	s.recordPricePoint(snapshot)

	s.writeJSON(w, map[string]interface{}{
		"success":    true,
		"price_usd":  snapshot.PriceUSD,
		"price_sol":  snapshot.PriceSOL,
		"source":     "dexscreener",
		"change_24h": snapshot.PriceChange24h,
		"timestamp":  unixNow(),
	})
}

func (s *Server) handleTokenStats(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	if !validAddress(address) {
		s.failWithCode(w, "Invalid token address format - must be 32-44 characters", "INVALID_ADDRESS")
		return
	}

	stats, err := s.market.TokenStats(r.Context(), address)
	if err != nil {
		s.failWithCode(w, err.Error(), errorCode(err))
		return
	}

	s.recordPricePoint(&stats.TokenMarketSnapshot)

	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"data":      stats,
		"timestamp": unixNow(),
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	snapshot, err := s.market.Snapshot(r.Context(), address)
	if err != nil {
		s.fail(w, err.Error())
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"trades":    analysis.SimulatedTrades(snapshot.PriceUSD, 20),
		"timestamp": unixNow(),
	})
}

// chartCandles is the series length served by the chart endpoint.
const chartCandles = 24

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	snapshot, err := s.market.Snapshot(r.Context(), address)
	if err != nil {
		s.failWithCode(w, err.Error(), errorCode(err))
		return
	}

	candles := s.recordedCandles(r.Context(), address)
	if candles == nil {
		candles = analysis.SyntheticCandles(
			snapshot.PriceUSD,
			snapshot.PriceChange24h,
			snapshot.Volume24h,
			snapshot.Liquidity,
			chartCandles,
		)
	}

	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"candles":   candles,
		"symbol":    snapshot.Symbol,
		"timestamp": unixNow(),
	})
}

// recordedCandles builds the chart series from persisted price observations.
// It returns nil until enough points have accumulated; the caller then
// serves the synthetic series instead.
func (s *Server) recordedCandles(ctx context.Context, address string) []models.Candle {
	if s.store == nil {
		return nil
	}
	points, err := s.store.RecentPoints(ctx, address, chartCandles+1)
	if err != nil {
		s.logger.Error("failed to load price history", "token", address, "error", err)
		return nil
	}
	if len(points) < chartCandles+1 {
		return nil
	}

	// Points arrive newest first; the chart wants oldest first, with each
	// candle opening at the previous observation's price.
	candles := make([]models.Candle, 0, chartCandles)
	for i := len(points) - 2; i >= 0; i-- {
		open := points[i+1].PriceUSD
		closePrice := points[i].PriceUSD
		candles = append(candles, models.Candle{
			Timestamp: points[i].RecordedAt.Unix(),
			Open:      open,
			High:      math.Max(open, closePrice),
			Low:       math.Min(open, closePrice),
			Close:     closePrice,
			Volume:    points[i].Volume24h / chartCandles,
		})
	}
	return candles
}

func (s *Server) handleRugcheck(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	report := s.market.Security(r.Context(), address)
	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"data":      report,
		"timestamp": unixNow(),
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	var chart *models.ChartUpload
	if r.Method == http.MethodPost && r.Body != nil && r.ContentLength != 0 {
		var payload struct {
			UploadedChart *models.ChartUpload `json:"uploaded_chart"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.fail(w, "invalid analysis payload")
			return
		}
		chart = payload.UploadedChart
		if chart != nil {
			s.logger.Info("received uploaded chart", "filename", chart.Filename)
		}
	}

	result, err := s.analysis.Analyze(r.Context(), address, chart)
	if err != nil {
		s.failWithCode(w, err.Error(), errorCode(err))
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"analysis":  result,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// recordPricePoint persists an observation for later charting. Failures are
// logged only, history is advisory.
func (s *Server) recordPricePoint(snapshot *models.TokenMarketSnapshot) {
	if s.store == nil {
		return
	}
	point := &history.PricePoint{
		Address:    snapshot.Address,
		Symbol:     snapshot.Symbol,
		PriceUSD:   snapshot.PriceUSD,
		Volume24h:  snapshot.Volume24h,
		Liquidity:  snapshot.Liquidity,
		RecordedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.RecordPricePoint(ctx, point); err != nil {
			s.logger.Error("failed to record price point", "token", point.Address, "error", err)
		}
	}()
}
