package scanner

import "github.com/quantweb/quantbot/internal/contracts"

// marketReasons maps the winning strategy to a human-readable market read
var marketReasons = map[contracts.Strategy]string{
	contracts.StrategyMomentum:       "📈 Strong Uptrend",
	contracts.StrategyMultiTimeframe: "✅ Trend Confirmation",
	contracts.StrategyGrid:           "〰️ Ranging Area",
	contracts.StrategyMeanReversal:   "🔄 Reversal Zone",
}

// MarketReason explains why a strategy won the search for an instrument
func MarketReason(strategy contracts.Strategy) string {
	if reason, ok := marketReasons[strategy]; ok {
		return reason
	}
	return "❓ Unclear"
}
