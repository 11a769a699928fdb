package scanner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/logger"
)

// fakeProvider serves canned series keyed by "symbol/interval" and records
// every fetch so tests can assert the reuse guarantee
type fakeProvider struct {
	series  map[string]*contracts.PriceSeries
	errs    map[string]error
	fetches []string
}

func (f *fakeProvider) Fetch(ctx context.Context, symbol, interval, span string) (*contracts.PriceSeries, error) {
	key := symbol + "/" + interval
	f.fetches = append(f.fetches, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if s, ok := f.series[key]; ok {
		return s, nil
	}
	return &contracts.PriceSeries{Symbol: symbol, Interval: interval}, nil
}

// fakeOracle serves canned metrics keyed by "interval/period/strategy"
type fakeOracle struct {
	metrics map[string]contracts.Metrics
	runErrs map[string]error
	advice  contracts.SignalAdvice
	runs    int
	advises int
}

func oracleKey(interval, period string, strategy contracts.Strategy) string {
	return fmt.Sprintf("%s/%s/%s", interval, period, strategy)
}

func (f *fakeOracle) Run(ctx context.Context, series *contracts.PriceSeries, strategy contracts.Strategy, period string) (*contracts.BacktestResult, error) {
	f.runs++
	key := oracleKey(series.Interval, period, strategy)
	if err, ok := f.runErrs[key]; ok {
		return nil, err
	}
	return &contracts.BacktestResult{
		Series:  *series,
		Metrics: f.metrics[key],
	}, nil
}

func (f *fakeOracle) Advise(ctx context.Context, series *contracts.PriceSeries, strategy contracts.Strategy) (*contracts.SignalAdvice, error) {
	f.advises++
	return &f.advice, nil
}

// makeCandles builds n ascending daily candles closing at close
func makeCandles(n int, close float64) []contracts.Candle {
	candles := make([]contracts.Candle, n)
	for i := range candles {
		candles[i] = contracts.Candle{
			Time:  int64(1700000000 + i*86400),
			Open:  close,
			High:  close + 1,
			Low:   close - 1,
			Close: close,
		}
	}
	return candles
}

func seriesOf(symbol, interval string, n int) *contracts.PriceSeries {
	return &contracts.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Candles:  makeCandles(n, 100),
	}
}

// testSpace is a compact space so tests stay readable: one period, two
// strategies, two timeframes
func testSpace() SearchSpace {
	return SearchSpace{
		Timeframes:    []string{"1h", "1d"},
		Periods:       []string{"1y"},
		Strategies:    []contracts.Strategy{contracts.StrategyMomentum, contracts.StrategyGrid},
		MinAutoBars:   50,
		MinManualBars: 30,
		MinTrades:     3,
	}
}

func defaultAdvice() contracts.SignalAdvice {
	return contracts.SignalAdvice{
		Price:      100,
		SetupLong:  contracts.TradeSetup{TakeProfit: 120, StopLoss: 90},
		SetupShort: contracts.TradeSetup{TakeProfit: 80, StopLoss: 110},
	}
}

func TestEngine_FindBest_AutoPicksHighestScore(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"BTC-USD/1h": seriesOf("BTC-USD", "1h", 60),
		"BTC-USD/1d": seriesOf("BTC-USD", "1d", 60),
	}}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1h", "1y", contracts.StrategyMomentum): {WinRate: 50, NetProfit: 100, TotalTrades: 10}, // 5000
			oracleKey("1h", "1y", contracts.StrategyGrid):     {WinRate: 70, NetProfit: 200, TotalTrades: 12}, // 14000
			oracleKey("1d", "1y", contracts.StrategyMomentum): {WinRate: 60, NetProfit: 150, TotalTrades: 8},  // 9000
			oracleKey("1d", "1y", contracts.StrategyGrid):     {WinRate: 40, NetProfit: 100, TotalTrades: 5},  // 4000
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "BTC-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, contracts.StrategyGrid, cfg.Strategy)
	assert.Equal(t, "1h", cfg.Timeframe)
	assert.Equal(t, "1y", cfg.Period)
	assert.Equal(t, contracts.ModeAuto, cfg.Mode)
	assert.Equal(t, "1 : 2.0", cfg.RiskReward)
	assert.InDelta(t, 14000, cfg.Score(), 1e-9)
}

func TestEngine_FindBest_AutoTieKeepsEarlierConfiguration(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"ETH-USD/1h": seriesOf("ETH-USD", "1h", 60),
		"ETH-USD/1d": seriesOf("ETH-USD", "1d", 60),
	}}
	// Identical score everywhere: the first iterated triple must win
	same := contracts.Metrics{WinRate: 60, NetProfit: 100, TotalTrades: 10}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1h", "1y", contracts.StrategyMomentum): same,
			oracleKey("1h", "1y", contracts.StrategyGrid):     same,
			oracleKey("1d", "1y", contracts.StrategyMomentum): same,
			oracleKey("1d", "1y", contracts.StrategyGrid):     same,
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "ETH-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "1h", cfg.Timeframe)
	assert.Equal(t, contracts.StrategyMomentum, cfg.Strategy)
	// Only the retained winner gets an advice call
	assert.Equal(t, 1, oracle.advises)
}

func TestEngine_FindBest_AutoFiltersLowTradeCounts(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"SOL-USD/1h": seriesOf("SOL-USD", "1h", 60),
		"SOL-USD/1d": seriesOf("SOL-USD", "1d", 60),
	}}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			// Highest score but too few closed trades
			oracleKey("1h", "1y", contracts.StrategyMomentum): {WinRate: 90, NetProfit: 900, TotalTrades: 2},
			oracleKey("1d", "1y", contracts.StrategyGrid):     {WinRate: 55, NetProfit: 80, TotalTrades: 6},
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "SOL-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, contracts.StrategyGrid, cfg.Strategy)
	assert.Equal(t, "1d", cfg.Timeframe)
}

func TestEngine_FindBest_AutoNoQualifierReturnsNil(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"DOGE-USD/1h": seriesOf("DOGE-USD", "1h", 60),
		"DOGE-USD/1d": seriesOf("DOGE-USD", "1d", 60),
	}}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1h", "1y", contracts.StrategyMomentum): {TotalTrades: 1},
			oracleKey("1h", "1y", contracts.StrategyGrid):     {TotalTrades: 2},
			oracleKey("1d", "1y", contracts.StrategyMomentum): {TotalTrades: 0},
			oracleKey("1d", "1y", contracts.StrategyGrid):     {TotalTrades: 2},
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "DOGE-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestEngine_FindBest_AutoFetchesOncePerTimeframe(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"BTC-USD/1h": seriesOf("BTC-USD", "1h", 60),
		"BTC-USD/1d": seriesOf("BTC-USD", "1d", 60),
	}}
	oracle := &fakeOracle{advice: defaultAdvice()}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	_, err := engine.FindBest(context.Background(), "BTC-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC-USD/1h", "BTC-USD/1d"}, provider.fetches)
	// 2 timeframes x 1 period x 2 strategies
	assert.Equal(t, 4, oracle.runs)
}

func TestEngine_FindBest_AutoSkipsFailedTimeframe(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]*contracts.PriceSeries{
			"BTC-USD/1d": seriesOf("BTC-USD", "1d", 60),
		},
		errs: map[string]error{
			"BTC-USD/1h": errors.New("upstream timeout"),
		},
	}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1d", "1y", contracts.StrategyMomentum): {WinRate: 55, NetProfit: 120, TotalTrades: 9},
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "BTC-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "1d", cfg.Timeframe)
}

func TestEngine_FindBest_AutoSkipsShortSeries(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"BTC-USD/1h": seriesOf("BTC-USD", "1h", 49), // one bar short
		"BTC-USD/1d": seriesOf("BTC-USD", "1d", 50),
	}}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1d", "1y", contracts.StrategyMomentum): {WinRate: 50, NetProfit: 50, TotalTrades: 5},
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "BTC-USD", contracts.ModeAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "1d", cfg.Timeframe)
	// 1h never reached the oracle
	assert.Equal(t, 2, oracle.runs)
}

func TestEngine_FindBest_AutoPropagatesBacktestError(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"BTC-USD/1h": seriesOf("BTC-USD", "1h", 60),
		"BTC-USD/1d": seriesOf("BTC-USD", "1d", 60),
	}}
	oracle := &fakeOracle{
		runErrs: map[string]error{
			oracleKey("1h", "1y", contracts.StrategyMomentum): errors.New("oracle unavailable"),
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "BTC-USD", contracts.ModeAuto, nil)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "oracle unavailable")
}

func TestEngine_FindBest_ManualRunsPinnedConfiguration(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL/1d": seriesOf("AAPL", "1d", 40),
	}}
	oracle := &fakeOracle{
		metrics: map[string]contracts.Metrics{
			oracleKey("1d", "6mo", contracts.StrategyGrid): {WinRate: 45, NetProfit: 30, TotalTrades: 2},
		},
		advice: defaultAdvice(),
	}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	override := &ManualOverride{Strategy: contracts.StrategyGrid, Timeframe: "1d", Period: "6mo"}
	cfg, err := engine.FindBest(context.Background(), "AAPL", contracts.ModeManual, override)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Manual mode reports the pinned run even below the trade-count filter
	assert.Equal(t, contracts.StrategyGrid, cfg.Strategy)
	assert.Equal(t, 2, cfg.Metrics.TotalTrades)
	assert.Equal(t, contracts.ModeManual, cfg.Mode)
	assert.Equal(t, 1, oracle.runs)
}

func TestEngine_FindBest_ManualInsufficientBarsReturnsNil(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL/1d": seriesOf("AAPL", "1d", 29),
	}}
	oracle := &fakeOracle{advice: defaultAdvice()}
	engine := NewEngine(provider, oracle, testSpace(), logger.Nop())

	override := &ManualOverride{Strategy: contracts.StrategyMomentum, Timeframe: "1d", Period: "1y"}
	cfg, err := engine.FindBest(context.Background(), "AAPL", contracts.ModeManual, override)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Zero(t, oracle.runs)
}

func TestEngine_FindBest_ManualRequiresOverride(t *testing.T) {
	engine := NewEngine(&fakeProvider{}, &fakeOracle{}, testSpace(), logger.Nop())

	cfg, err := engine.FindBest(context.Background(), "AAPL", contracts.ModeManual, nil)
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestEngine_FindBest_ManualPropagatesFetchError(t *testing.T) {
	provider := &fakeProvider{errs: map[string]error{
		"AAPL/1d": errors.New("rate limited"),
	}}
	engine := NewEngine(provider, &fakeOracle{}, testSpace(), logger.Nop())

	override := &ManualOverride{Strategy: contracts.StrategyMomentum, Timeframe: "1d", Period: "1y"}
	_, err := engine.FindBest(context.Background(), "AAPL", contracts.ModeManual, override)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
