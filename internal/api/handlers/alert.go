package handlers

import (
	"net/http"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/logger"
)

// AlertHandler handles alert API endpoints
type AlertHandler struct {
	notifier contracts.Notifier
	logger   *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(notifier contracts.Notifier, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		notifier: notifier,
		logger:   log,
	}
}

// SendTest sends a test alert through the notifier
// POST /api/send-alert
func (h *AlertHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	message := "🚨 **MANUAL TEST ALERT**\n_QuantBot Test_"

	if err := h.notifier.Send(r.Context(), message); err != nil {
		// Transport is best effort; report ok but keep the log
		h.logger.WithError(err).Error("Test alert delivery failed")
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
