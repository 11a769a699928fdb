package contracts

// Metrics holds backtest performance metrics for one (series, strategy, period)
type Metrics struct {
	WinRate       float64 `json:"win_rate"`
	NetProfit     float64 `json:"net_profit"`
	TotalTrades   int     `json:"total_trades"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	BuyHoldReturn float64 `json:"buy_hold_return"`
}

// SignalMarker is an entry/exit marker emitted by a backtest run.
// Label is "BUY", "SELL" or a strategy-specific variant.
type SignalMarker struct {
	Time  int64  `json:"time"`
	Label string `json:"text"`
}

// TradeSetup holds the take-profit / stop-loss levels for one side
type TradeSetup struct {
	TakeProfit float64 `json:"tp"`
	StopLoss   float64 `json:"sl"`
}

// SignalAdvice describes the current actionable setup for a series+strategy,
// independent of any specific backtest run
type SignalAdvice struct {
	Price      float64    `json:"price"`
	SetupLong  TradeSetup `json:"setup_long"`
	SetupShort TradeSetup `json:"setup_short"`
}

// EquityPoint is one point on a backtest equity curve
type EquityPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// BacktestResult is the full output of one backtest oracle run
type BacktestResult struct {
	Series      PriceSeries    `json:"series"`
	Markers     []SignalMarker `json:"markers"`
	Metrics     Metrics        `json:"metrics"`
	EquityCurve []EquityPoint  `json:"equity_curve"`
}

// Configuration is the unit of comparison in the strategy search.
// Built fresh on every search invocation, never persisted or mutated.
type Configuration struct {
	Symbol     string       `json:"symbol"`
	Strategy   Strategy     `json:"strategy"`
	Timeframe  string       `json:"timeframe"`
	Period     string       `json:"period"`
	Metrics    Metrics      `json:"metrics"`
	Signal     SignalAdvice `json:"signal_data"`
	RiskReward string       `json:"rr_ratio"`
	Mode       Mode         `json:"mode"`
}

// Score is the selection criterion of the AUTO search
func (c *Configuration) Score() float64 {
	return c.Metrics.WinRate * c.Metrics.NetProfit
}

// AlertEvent is a confirmed fresh signal, consumed once by the dispatcher.
// SignalTime is the marker timestamp; dispatch dedup keys on (Symbol, SignalTime).
type AlertEvent struct {
	Symbol      string   `json:"symbol"`
	Action      string   `json:"action"`
	SignalTime  int64    `json:"signal_time"`
	Price       float64  `json:"price"`
	TakeProfit  float64  `json:"tp"`
	StopLoss    float64  `json:"sl"`
	RiskReward  string   `json:"rr_ratio"`
	Strategy    Strategy `json:"strategy"`
	Timeframe   string   `json:"timeframe"`
	Period      string   `json:"period"`
	WinRate     float64  `json:"win_rate"`
	TotalTrades int      `json:"total_trades"`
	Mode        Mode     `json:"mode"`
}
