package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/internal/watchlist"
	"github.com/quantweb/quantbot/pkg/logger"
)

// WatchlistHandler handles watchlist API endpoints
type WatchlistHandler struct {
	store        contracts.WatchlistStore
	orchestrator *scanner.Orchestrator
	logger       *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(store contracts.WatchlistStore, orchestrator *scanner.Orchestrator, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		store:        store,
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Get evaluates every watchlist entry and returns the display projection
// GET /api/watchlist
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.orchestrator.ScanWatchlist(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to scan watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to evaluate watchlist")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// addRequest is the POST /api/watchlist body
type addRequest struct {
	Symbol    string             `json:"symbol"`
	Mode      contracts.Mode     `json:"mode"`
	Strategy  contracts.Strategy `json:"strategy"`
	Timeframe string             `json:"timeframe"`
	Period    string             `json:"period"`
}

// Add inserts a new watchlist entry
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Symbol) == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	// Defaults mirror the frontend form
	if req.Mode == "" {
		req.Mode = contracts.ModeAuto
	}
	if req.Mode != contracts.ModeAuto && req.Mode != contracts.ModeManual {
		respondError(w, http.StatusBadRequest, "mode must be AUTO or MANUAL")
		return
	}
	if req.Strategy == "" {
		req.Strategy = contracts.StrategyMomentum
	}
	if req.Timeframe == "" {
		req.Timeframe = "1d"
	}
	if req.Period == "" {
		req.Period = "1y"
	}

	entry := contracts.WatchlistEntry{
		Symbol:    strings.ToUpper(req.Symbol),
		Mode:      req.Mode,
		Strategy:  req.Strategy,
		Timeframe: req.Timeframe,
		Period:    req.Period,
	}

	if err := h.store.Add(r.Context(), entry); err != nil {
		if errors.Is(err, watchlist.ErrDuplicateSymbol) {
			respondError(w, http.StatusBadRequest, "symbol already in watchlist")
			return
		}
		h.logger.WithError(err).WithField("symbol", entry.Symbol).Error("Failed to add watchlist entry")
		respondError(w, http.StatusInternalServerError, "Failed to add watchlist entry")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("%s added to watchlist", entry.Symbol),
	})
}

// Delete removes a watchlist entry by symbol
// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	if err := h.store.Remove(r.Context(), symbol); err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to remove watchlist entry")
		respondError(w, http.StatusInternalServerError, "Failed to remove watchlist entry")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
