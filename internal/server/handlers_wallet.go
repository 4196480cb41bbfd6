package server

import (
	"fmt"
	"net/http"
)

// handleWalletBalance reports the trading wallet's SOL balance. An
// unconfigured wallet and an unreachable RPC are both soft failures the
// frontend renders as a zero balance.
func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	if s.wallet == nil {
		s.writeJSON(w, map[string]interface{}{
			"success": false,
			"balance": 0.0,
			"error":   "Wallet not configured. Please complete setup first.",
		})
		return
	}

	balance, err := s.wallet.Balance(r.Context())
	if err != nil {
		s.logger.Error("failed to fetch wallet balance", "error", err)
		s.writeJSON(w, map[string]interface{}{
			"success": false,
			"balance": 0.0,
			"error":   fmt.Sprintf("Connection error: %v", err),
		})
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"success":          true,
		"balance":          balance.SOL,
		"balance_lamports": balance.Lamports,
		"wallet_address":   balance.Address,
		"message":          fmt.Sprintf("Wallet balance: %.6f SOL", balance.SOL),
	})
}
