package contracts

import "context"

// MarketDataProvider retrieves historical candles for an instrument.
// An empty series is a valid outcome ("insufficient data"), not an error.
type MarketDataProvider interface {
	// Fetch returns candles for symbol at interval covering span
	// (e.g. "max", "1y"). Candles are ascending by time.
	Fetch(ctx context.Context, symbol, interval, span string) (*PriceSeries, error)
}

// BacktestOracle evaluates a strategy over a price series.
// The indicator and simulation math live behind this interface.
type BacktestOracle interface {
	// Run backtests strategy over series, evaluated on the trailing period
	// (e.g. "6mo", "1y"). Indicators are computed over the full series.
	Run(ctx context.Context, series *PriceSeries, strategy Strategy, period string) (*BacktestResult, error)

	// Advise returns the current actionable setup for series+strategy
	Advise(ctx context.Context, series *PriceSeries, strategy Strategy) (*SignalAdvice, error)
}

// WatchlistStore persists the monitored instrument set
type WatchlistStore interface {
	List(ctx context.Context) ([]WatchlistEntry, error)
	Add(ctx context.Context, entry WatchlistEntry) error
	Remove(ctx context.Context, symbol string) error
}

// Notifier delivers a human-readable alert message.
// Delivery is best effort; callers log and drop failures.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
