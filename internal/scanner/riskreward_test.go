package scanner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskReward(t *testing.T) {
	tests := []struct {
		name       string
		entry      float64
		takeProfit float64
		stopLoss   float64
		want       string
	}{
		{
			name:       "long setup with 2:1 reward",
			entry:      100,
			takeProfit: 120,
			stopLoss:   90,
			want:       "1 : 2.0",
		},
		{
			name:       "short setup uses absolute distances",
			entry:      100,
			takeProfit: 80,
			stopLoss:   110,
			want:       "1 : 2.0",
		},
		{
			name:       "zero risk yields sentinel",
			entry:      100,
			takeProfit: 110,
			stopLoss:   100,
			want:       RiskRewardNA,
		},
		{
			name:       "sub-1 ratio rounds to one decimal",
			entry:      100,
			takeProfit: 105,
			stopLoss:   90,
			want:       "1 : 0.5",
		},
		{
			name:       "nan entry yields sentinel",
			entry:      math.NaN(),
			takeProfit: 110,
			stopLoss:   90,
			want:       RiskRewardNA,
		},
		{
			name:       "all zero yields sentinel",
			entry:      0,
			takeProfit: 0,
			stopLoss:   0,
			want:       RiskRewardNA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskReward(tt.entry, tt.takeProfit, tt.stopLoss))
		})
	}
}
