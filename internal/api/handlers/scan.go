package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/pkg/logger"
)

// ScanHandler handles market scan API endpoints
type ScanHandler struct {
	orchestrator *scanner.Orchestrator
	logger       *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(orchestrator *scanner.Orchestrator, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// scanRequest is the POST /api/scan-market body
type scanRequest struct {
	Sector string `json:"sector"`
}

// ScanMarket runs the AUTO search over a sector and returns both the full
// result list and the elite subset
// POST /api/scan-market
func (h *ScanHandler) ScanMarket(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sector := strings.ToUpper(strings.TrimSpace(req.Sector))
	if sector == "" {
		respondError(w, http.StatusBadRequest, "sector is required")
		return
	}

	scan, err := h.orchestrator.ScanSector(r.Context(), sector)
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown sector")
		return
	}

	respondJSON(w, http.StatusOK, scan)
}
