package scanner

import "github.com/quantweb/quantbot/internal/contracts"

// SearchSpace is the immutable configuration space the AUTO search explores.
// Iteration order is timeframe -> period -> strategy and determines the
// deterministic tie-break precedence of the search.
type SearchSpace struct {
	Timeframes []string
	Periods    []string
	Strategies []contracts.Strategy

	// MinAutoBars is the minimum series length to evaluate a timeframe
	MinAutoBars int
	// MinManualBars is the minimum series length for a MANUAL run
	MinManualBars int
	// MinTrades is the minimum closed trades for statistical support
	MinTrades int
}

// DefaultSearchSpace returns the production search space
func DefaultSearchSpace() SearchSpace {
	return SearchSpace{
		Timeframes: []string{"1h", "4h", "1d"},
		Periods:    []string{"6mo", "1y"},
		Strategies: []contracts.Strategy{
			contracts.StrategyMomentum,
			contracts.StrategyMeanReversal,
			contracts.StrategyGrid,
			contracts.StrategyMultiTimeframe,
		},
		MinAutoBars:   50,
		MinManualBars: 30,
		MinTrades:     3,
	}
}
