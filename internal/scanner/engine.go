package scanner

import (
	"context"
	"fmt"
	"math"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/logger"
)

// ManualOverride pins the configuration of a MANUAL-mode search
type ManualOverride struct {
	Strategy  contracts.Strategy
	Timeframe string
	Period    string
}

// Engine searches the strategy/timeframe/period space for the best
// configuration of a single instrument
type Engine struct {
	provider contracts.MarketDataProvider
	oracle   contracts.BacktestOracle
	space    SearchSpace
	logger   *logger.Logger
}

// NewEngine creates a search engine over the given space
func NewEngine(provider contracts.MarketDataProvider, oracle contracts.BacktestOracle, space SearchSpace, log *logger.Logger) *Engine {
	return &Engine{
		provider: provider,
		oracle:   oracle,
		space:    space,
		logger:   log,
	}
}

// FindBest returns the best configuration for symbol, or nil when the
// instrument has insufficient data or no configuration passes the
// trade-count filter. override is required when mode is MANUAL.
func (e *Engine) FindBest(ctx context.Context, symbol string, mode contracts.Mode, override *ManualOverride) (*contracts.Configuration, error) {
	if mode == contracts.ModeManual {
		if override == nil {
			return nil, fmt.Errorf("manual search for %s requires an override", symbol)
		}
		return e.findManual(ctx, symbol, *override)
	}
	return e.findAuto(ctx, symbol)
}

// findManual runs the single pinned configuration without scoring
func (e *Engine) findManual(ctx context.Context, symbol string, ov ManualOverride) (*contracts.Configuration, error) {
	series, err := e.provider.Fetch(ctx, symbol, ov.Timeframe, contracts.SpanMax)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, ov.Timeframe, err)
	}
	if series.Len() < e.space.MinManualBars {
		e.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"bars":   series.Len(),
		}).Debug("Not enough bars for manual run")
		return nil, nil
	}

	result, err := e.oracle.Run(ctx, series, ov.Strategy, ov.Period)
	if err != nil {
		return nil, fmt.Errorf("backtest %s %s: %w", symbol, ov.Strategy, err)
	}

	advice, err := e.oracle.Advise(ctx, series, ov.Strategy)
	if err != nil {
		return nil, fmt.Errorf("advise %s %s: %w", symbol, ov.Strategy, err)
	}

	return &contracts.Configuration{
		Symbol:     symbol,
		Strategy:   ov.Strategy,
		Timeframe:  ov.Timeframe,
		Period:     ov.Period,
		Metrics:    result.Metrics,
		Signal:     *advice,
		RiskReward: RiskReward(advice.Price, advice.SetupLong.TakeProfit, advice.SetupLong.StopLoss),
		Mode:       contracts.ModeManual,
	}, nil
}

// findAuto explores the full search space tracking the running maximum of
// score = win_rate x net_profit. The comparison is strictly greater-than,
// so on tied scores the earliest-iterated triple wins.
func (e *Engine) findAuto(ctx context.Context, symbol string) (*contracts.Configuration, error) {
	var best *contracts.Configuration
	bestScore := math.Inf(-1)

	for _, timeframe := range e.space.Timeframes {
		// One fetch per timeframe, reused for every (period, strategy)
		// pair below. Refetching inside the inner loops would hit the
		// provider O(periods x strategies) times per timeframe.
		series, err := e.provider.Fetch(ctx, symbol, timeframe, contracts.SpanMax)
		if err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol":    symbol,
				"timeframe": timeframe,
			}).Warn("Fetch failed, skipping timeframe")
			continue
		}
		if series.Len() < e.space.MinAutoBars {
			continue
		}

		for _, period := range e.space.Periods {
			for _, strategy := range e.space.Strategies {
				result, err := e.oracle.Run(ctx, series, strategy, period)
				if err != nil {
					return nil, fmt.Errorf("backtest %s %s/%s/%s: %w", symbol, timeframe, period, strategy, err)
				}

				// Too few closed trades carry no statistical weight
				if result.Metrics.TotalTrades < e.space.MinTrades {
					continue
				}

				score := result.Metrics.WinRate * result.Metrics.NetProfit
				if score <= bestScore {
					continue
				}
				bestScore = score

				advice, err := e.oracle.Advise(ctx, series, strategy)
				if err != nil {
					return nil, fmt.Errorf("advise %s %s: %w", symbol, strategy, err)
				}

				best = &contracts.Configuration{
					Symbol:     symbol,
					Strategy:   strategy,
					Timeframe:  timeframe,
					Period:     period,
					Metrics:    result.Metrics,
					Signal:     *advice,
					RiskReward: RiskReward(advice.Price, advice.SetupLong.TakeProfit, advice.SetupLong.StopLoss),
					Mode:       contracts.ModeAuto,
				}
			}
		}
	}

	if best != nil {
		e.logger.WithFields(map[string]interface{}{
			"symbol":    symbol,
			"strategy":  best.Strategy,
			"timeframe": best.Timeframe,
			"period":    best.Period,
			"score":     bestScore,
		}).Debug("Best configuration selected")
	}

	return best, nil
}
