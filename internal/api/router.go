package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quantweb/quantbot/internal/api/handlers"
	"github.com/quantweb/quantbot/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	watchlistHandler *handlers.WatchlistHandler,
	scanHandler *handlers.ScanHandler,
	backtestHandler *handlers.BacktestHandler,
	alertHandler *handlers.AlertHandler,
	schedulerHandler *handlers.SchedulerHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/", statusHandler).Methods("GET")
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Watchlist
	api.HandleFunc("/watchlist", watchlistHandler.Get).Methods("GET")
	api.HandleFunc("/watchlist", watchlistHandler.Add).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", watchlistHandler.Delete).Methods("DELETE")

	// Scanning and backtests
	api.HandleFunc("/scan-market", scanHandler.ScanMarket).Methods("POST")
	api.HandleFunc("/run-backtest", backtestHandler.RunBacktest).Methods("POST")
	api.HandleFunc("/compare-strategies", backtestHandler.CompareStrategies).Methods("POST")

	// Alerts
	api.HandleFunc("/send-alert", alertHandler.SendTest).Methods("POST")

	// Scheduler introspection
	api.HandleFunc("/scheduler/jobs", schedulerHandler.GetJobs).Methods("GET")
	api.HandleFunc("/scheduler/jobs/{name}/run", schedulerHandler.RunJob).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusHandler reports overall service status
func statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "Backend Active",
		"bot_status": "Monitoring",
	})
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "quantbot-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
