package scanner

import (
	"fmt"
	"math"
)

// RiskRewardNA is returned when the ratio is undefined (zero risk)
const RiskRewardNA = "1 : N/A"

// RiskReward formats the reward-per-unit-risk ratio of a trade setup.
// risk = |entry - stopLoss|, reward = |takeProfit - entry|.
// Total function: degenerate inputs yield the N/A sentinel, never an error.
func RiskReward(entry, takeProfit, stopLoss float64) string {
	risk := math.Abs(entry - stopLoss)
	reward := math.Abs(takeProfit - entry)

	if risk == 0 {
		return RiskRewardNA
	}

	ratio := reward / risk
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return RiskRewardNA
	}

	return fmt.Sprintf("1 : %.1f", ratio)
}
