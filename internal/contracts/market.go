package contracts

// Mode selects how a watchlist entry is evaluated
type Mode string

const (
	ModeAuto   Mode = "AUTO"
	ModeManual Mode = "MANUAL"
)

// Strategy identifies a trading strategy known to the backtest oracle
type Strategy string

const (
	StrategyMomentum       Strategy = "MOMENTUM"
	StrategyMeanReversal   Strategy = "MEAN_REVERSAL"
	StrategyGrid           Strategy = "GRID"
	StrategyMultiTimeframe Strategy = "MULTITIMEFRAME"
)

// SpanMax requests the full history a provider can serve, so indicators
// that need warm-up bars (moving averages, RSI) are mature before any
// evaluation window begins.
const SpanMax = "max"

// Candle is a single OHLCV bar.
// Time is Unix seconds of the bar open, matching the oracle wire format.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PriceSeries is an ordered candle sequence for one symbol+interval.
// Candles are ascending by time; gap handling is the provider's concern.
type PriceSeries struct {
	Symbol   string   `json:"symbol"`
	Interval string   `json:"interval"`
	Candles  []Candle `json:"candles"`
}

// Len returns the number of candles in the series
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Last returns the most recent candle
func (s *PriceSeries) Last() (Candle, bool) {
	if s.Len() == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}
