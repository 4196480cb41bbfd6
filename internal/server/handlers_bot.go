package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rickscode/Solara-Beta/internal/bot"
)

func (s *Server) handleBotStart(w http.ResponseWriter, r *http.Request) {
	if s.runner.State().Running {
		s.fail(w, "Bot is already running")
		return
	}

	cfg, err := bot.LoadConfig(s.botConfigPath)
	if err != nil {
		s.fail(w, fmt.Sprintf("failed to load bot config: %v", err))
		return
	}

	// An optional JSON body overrides the stored config before launch.
	if r.Body != nil && r.ContentLength != 0 {
		var override bot.Config
		if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
			s.fail(w, "invalid configuration payload")
			return
		}
		applyOverride(cfg, &override)
		if err := cfg.Save(s.botConfigPath); err != nil {
			s.fail(w, err.Error())
			return
		}
	} else if err := cfg.Validate(); err != nil {
		s.fail(w, err.Error())
		return
	}

	dex := s.market.PrimaryDex(r.Context(), cfg.TokenAddress)
	cfg.DexType = dex

	if err := s.runner.Start(dex); err != nil {
		s.fail(w, err.Error())
		return
	}

	go s.notifier.Notify(context.Background(), fmt.Sprintf(
		"*Bot Started*\n\nToken: %s\nBuy: %.8f\nSell: %.8f\nDEX: %s",
		symbolOrToken(cfg), cfg.TargetBuyPrice, cfg.TargetSellPrice, dex))

	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Bot started on %s", dex),
		"pid":     s.runner.State().PID,
		"config":  cfg,
	})
}

func (s *Server) handleBotStop(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Stop(); err != nil {
		s.fail(w, "No bot is currently running")
		return
	}

	cfg, _ := bot.LoadConfig(s.botConfigPath)
	go s.notifier.Notify(context.Background(), fmt.Sprintf(
		"*Bot Stopped*\n\nToken: %s\nTime: %s\n\nBot stopped by user command",
		symbolOrToken(cfg), time.Now().Format("15:04:05")))

	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"message": "Bot stopped successfully",
	})
}

func (s *Server) handleBotStatus(w http.ResponseWriter, r *http.Request) {
	status := s.runner.State()
	cfg, _ := bot.LoadConfig(s.botConfigPath)

	payload := map[string]interface{}{
		"running": status.Running,
		"config":  cfg,
	}
	if status.Running {
		payload["pid"] = status.PID
		payload["dex_type"] = status.DexType
		payload["started_at"] = status.StartedAt.Format(time.RFC3339)
	}
	s.writeJSON(w, payload)
}

func (s *Server) handleBotConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := bot.LoadConfig(s.botConfigPath)
	if err != nil {
		s.fail(w, err.Error())
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"config":  cfg,
	})
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var incoming bot.Config
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		s.fail(w, "No configuration data provided")
		return
	}

	cfg, err := bot.LoadConfig(s.botConfigPath)
	if err != nil {
		s.fail(w, err.Error())
		return
	}
	applyOverride(cfg, &incoming)

	if err := cfg.Save(s.botConfigPath); err != nil {
		s.fail(w, err.Error())
		return
	}
	s.buffer.Append("Configuration updated successfully", "info")

	// A running bot is restarted so the new token/DEX takes effect; plain
	// parameter changes would be picked up by nodemon anyway.
	restarted := false
	if s.runner.State().Running {
		s.buffer.Append("Restarting bot with new configuration...", "info")
		dex := s.market.PrimaryDex(r.Context(), cfg.TokenAddress)
		if err := s.runner.Restart(dex); err != nil {
			s.fail(w, fmt.Sprintf("configuration saved but restart failed: %v", err))
			return
		}
		restarted = true
	}

	message := "Configuration saved successfully"
	if restarted {
		message = "Configuration saved and bot restarted"
	}
	s.writeJSON(w, map[string]interface{}{
		"success":   true,
		"message":   message,
		"config":    cfg,
		"restarted": restarted,
	})
}

func (s *Server) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	cfg, err := bot.LoadConfig(s.botConfigPath)
	if err != nil {
		s.fail(w, err.Error())
		return
	}
	if cfg.TokenAddress == "" {
		s.fail(w, "No token address configured")
		return
	}

	dex := s.market.PrimaryDex(r.Context(), cfg.TokenAddress)
	output, err := s.runner.ClosePosition(r.Context(), dex, cfg.TokenAddress)
	if err != nil {
		s.fail(w, err.Error())
		return
	}

	go s.notifier.Notify(context.Background(), fmt.Sprintf(
		"*Position Closed*\n\nToken: %s\nDEX: %s", symbolOrToken(cfg), dex))

	s.writeJSON(w, map[string]interface{}{
		"success":  true,
		"message":  "Position closed successfully",
		"dex_used": dex,
		"output":   output,
	})
}

func (s *Server) handleTerminalOutput(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"output":  s.buffer.Lines(),
	})
}

func (s *Server) handleTerminalClear(w http.ResponseWriter, r *http.Request) {
	s.buffer.Clear()
	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"message": "Terminal cleared",
	})
}

// applyOverride copies the set fields of in onto cfg. Zero values mean
// "keep current" except for the symbol, which may be cleared on purpose.
func applyOverride(cfg, in *bot.Config) {
	if in.TokenAddress != "" {
		cfg.TokenAddress = in.TokenAddress
	}
	if in.TokenSymbol != "" {
		cfg.TokenSymbol = in.TokenSymbol
	}
	if in.TargetBuyPrice > 0 {
		cfg.TargetBuyPrice = in.TargetBuyPrice
	}
	if in.TargetSellPrice > 0 {
		cfg.TargetSellPrice = in.TargetSellPrice
	}
	if in.StopLossPercentage > 0 {
		cfg.StopLossPercentage = in.StopLossPercentage
	}
	if in.AmountToTrade > 0 {
		cfg.AmountToTrade = in.AmountToTrade
	}
	if in.SlippageBps > 0 {
		cfg.SlippageBps = in.SlippageBps
	}
	if in.DexType != "" {
		cfg.DexType = in.DexType
	}
}

func symbolOrToken(cfg *bot.Config) string {
	if cfg != nil && cfg.TokenSymbol != "" {
		return cfg.TokenSymbol
	}
	return "TOKEN"
}
