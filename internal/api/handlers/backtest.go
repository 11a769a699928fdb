package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/pkg/logger"
)

// BacktestHandler handles interactive single-instrument backtests.
// Unlike batch scans, failures here surface to the caller.
type BacktestHandler struct {
	provider contracts.MarketDataProvider
	oracle   contracts.BacktestOracle
	space    scanner.SearchSpace
	logger   *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(provider contracts.MarketDataProvider, oracle contracts.BacktestOracle, space scanner.SearchSpace, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{
		provider: provider,
		oracle:   oracle,
		space:    space,
		logger:   log,
	}
}

// backtestRequest is the body of the interactive backtest endpoints
type backtestRequest struct {
	Symbol    string             `json:"symbol"`
	Strategy  contracts.Strategy `json:"strategy"`
	Capital   float64            `json:"capital"`
	Timeframe string             `json:"timeframe"`
	Period    string             `json:"period"`
}

func (req *backtestRequest) applyDefaults() {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Timeframe == "" {
		req.Timeframe = "1d"
	}
	if req.Period == "" {
		req.Period = "1y"
	}
}

// RunBacktest runs one strategy over one instrument.
// The series is always fetched at maximal span so interactive results
// match what the scanner computes.
// POST /api/run-backtest
func (h *BacktestHandler) RunBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.applyDefaults()

	if req.Symbol == "" || req.Strategy == "" {
		respondError(w, http.StatusBadRequest, "symbol and strategy are required")
		return
	}

	series, err := h.fetchForBacktest(w, r, req)
	if series == nil || err != nil {
		return
	}

	result, err := h.oracle.Run(r.Context(), series, req.Strategy, req.Period)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Backtest failed")
		respondError(w, http.StatusBadGateway, "backtest failed")
		return
	}

	// chart_data carries raw OHLCV only; the oracle's computed indicator
	// columns stay behind the wire and are not projected here
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"chart_data":   result.Series.Candles,
		"markers":      result.Markers,
		"metrics":      result.Metrics,
		"equity_curve": result.EquityCurve,
	})
}

// comparisonRow is one row of a strategy comparison
type comparisonRow struct {
	Strategy  contracts.Strategy `json:"strategy"`
	NetProfit float64            `json:"net_profit"`
	WinRate   float64            `json:"win_rate"`
	Trades    int                `json:"trades"`
	Sharpe    float64            `json:"sharpe"`
	IsHold    bool               `json:"is_hold"`
}

// CompareStrategies backtests every strategy of the search space over one
// instrument and appends a buy-and-hold baseline row
// POST /api/compare-strategies
func (h *BacktestHandler) CompareStrategies(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.applyDefaults()

	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	series, err := h.fetchForBacktest(w, r, req)
	if series == nil || err != nil {
		return
	}

	var rows []comparisonRow
	var buyHoldReturn float64
	for _, strategy := range h.space.Strategies {
		result, err := h.oracle.Run(r.Context(), series, strategy, req.Period)
		if err != nil {
			h.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol":   req.Symbol,
				"strategy": strategy,
			}).Error("Comparison backtest failed")
			respondError(w, http.StatusBadGateway, fmt.Sprintf("backtest failed for %s", strategy))
			return
		}

		buyHoldReturn = result.Metrics.BuyHoldReturn
		rows = append(rows, comparisonRow{
			Strategy:  strategy,
			NetProfit: result.Metrics.NetProfit,
			WinRate:   result.Metrics.WinRate,
			Trades:    result.Metrics.TotalTrades,
			Sharpe:    result.Metrics.SharpeRatio,
		})
	}

	holdValue := math.Round(req.Capital*buyHoldReturn/100*100) / 100
	rows = append(rows, comparisonRow{
		Strategy:  "HOLD ONLY",
		NetProfit: holdValue,
		WinRate:   100,
		Trades:    1,
		IsHold:    true,
	})

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].NetProfit > rows[j].NetProfit
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     req.Symbol,
		"comparison": rows,
	})
}

// fetchForBacktest fetches the maximal-span series and enforces the
// minimum-bar rule. On failure it writes the response and returns nil.
func (h *BacktestHandler) fetchForBacktest(w http.ResponseWriter, r *http.Request, req backtestRequest) (*contracts.PriceSeries, error) {
	series, err := h.provider.Fetch(r.Context(), req.Symbol, req.Timeframe, contracts.SpanMax)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Fetch failed")
		respondError(w, http.StatusBadGateway, "market data fetch failed")
		return nil, err
	}

	if series.Len() < h.space.MinManualBars {
		respondError(w, http.StatusNotFound, fmt.Sprintf("not enough data for %s", req.Symbol))
		return nil, nil
	}

	return series, nil
}
