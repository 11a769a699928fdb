package signal

import (
	"context"
	"fmt"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/pkg/logger"
)

// freshnessPeriod is the evaluation window of the freshness backtest.
// One month is enough to extract the latest marker; indicator accuracy is
// unaffected because the underlying series is still maximal-span.
const freshnessPeriod = "1mo"

// Checker re-evaluates a chosen configuration against current market data
// and decides whether a new signal appeared on the most recent bar
type Checker struct {
	provider contracts.MarketDataProvider
	oracle   contracts.BacktestOracle
	logger   *logger.Logger
}

// NewChecker creates a signal freshness checker
func NewChecker(provider contracts.MarketDataProvider, oracle contracts.BacktestOracle, log *logger.Logger) *Checker {
	return &Checker{
		provider: provider,
		oracle:   oracle,
		logger:   log,
	}
}

// Check returns an AlertEvent when the latest signal marker sits on the most
// recent closed bar, and nil when there is no fresh signal. The series is
// fetched anew so freshness reflects current market state, not the snapshot
// the search ran on.
func (c *Checker) Check(ctx context.Context, cfg *contracts.Configuration) (*contracts.AlertEvent, error) {
	series, err := c.provider.Fetch(ctx, cfg.Symbol, cfg.Timeframe, contracts.SpanMax)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", cfg.Symbol, cfg.Timeframe, err)
	}
	if series.Len() == 0 {
		return nil, nil
	}

	result, err := c.oracle.Run(ctx, series, cfg.Strategy, freshnessPeriod)
	if err != nil {
		return nil, fmt.Errorf("backtest %s %s: %w", cfg.Symbol, cfg.Strategy, err)
	}
	if len(result.Markers) == 0 {
		return nil, nil
	}

	marker := result.Markers[len(result.Markers)-1]
	lastCandle, ok := result.Series.Last()
	if !ok {
		return nil, nil
	}

	// Fresh iff the marker was produced on the most recent closed bar,
	// not any earlier one
	if marker.Time < lastCandle.Time {
		c.logger.WithFields(map[string]interface{}{
			"symbol":      cfg.Symbol,
			"marker_time": marker.Time,
			"candle_time": lastCandle.Time,
		}).Debug("Latest marker is stale")
		return nil, nil
	}

	setup := cfg.Signal.SetupShort
	if marker.Label == "BUY" {
		setup = cfg.Signal.SetupLong
	}

	// Risk:reward is recomputed against the current close, not the price
	// the search saw
	price := lastCandle.Close

	return &contracts.AlertEvent{
		Symbol:      cfg.Symbol,
		Action:      marker.Label,
		SignalTime:  marker.Time,
		Price:       price,
		TakeProfit:  setup.TakeProfit,
		StopLoss:    setup.StopLoss,
		RiskReward:  scanner.RiskReward(price, setup.TakeProfit, setup.StopLoss),
		Strategy:    cfg.Strategy,
		Timeframe:   cfg.Timeframe,
		Period:      cfg.Period,
		WinRate:     cfg.Metrics.WinRate,
		TotalTrades: cfg.Metrics.TotalTrades,
		Mode:        cfg.Mode,
	}, nil
}
