package yahoo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantweb/quantbot/internal/contracts"
)

func TestResample(t *testing.T) {
	// Six hourly bars starting on a 4h boundary: buckets of 4 and 2
	base := int64(1700000000)
	base -= base % (4 * 3600)

	hourly := []contracts.Candle{
		{Time: base, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Time: base + 3600, Open: 11, High: 15, Low: 10, Close: 14, Volume: 200},
		{Time: base + 2*3600, Open: 14, High: 14, Low: 8, Close: 9, Volume: 50},
		{Time: base + 3*3600, Open: 9, High: 10, Low: 9, Close: 10, Volume: 150},
		{Time: base + 4*3600, Open: 10, High: 11, Low: 10, Close: 11, Volume: 75},
		{Time: base + 5*3600, Open: 11, High: 13, Low: 11, Close: 12, Volume: 25},
	}

	out := resample(hourly, 4*time.Hour)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, base, first.Time)
	assert.InDelta(t, 10, first.Open, 1e-9)  // first bar's open
	assert.InDelta(t, 15, first.High, 1e-9)  // max high
	assert.InDelta(t, 8, first.Low, 1e-9)    // min low
	assert.InDelta(t, 10, first.Close, 1e-9) // last bar's close
	assert.InDelta(t, 500, first.Volume, 1e-9)

	second := out[1]
	assert.Equal(t, base+4*3600, second.Time)
	assert.InDelta(t, 10, second.Open, 1e-9)
	assert.InDelta(t, 12, second.Close, 1e-9)
	assert.InDelta(t, 100, second.Volume, 1e-9)
}

func TestResample_Empty(t *testing.T) {
	assert.Empty(t, resample(nil, 4*time.Hour))
}

func TestToYahooInterval(t *testing.T) {
	tests := []struct {
		interval string
		wantErr  bool
	}{
		{"1h", false},
		{"1d", false},
		{"4h", true}, // aggregated locally, never sent upstream
		{"5m", true},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			_, err := toYahooInterval(tt.interval)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpanDuration(t *testing.T) {
	day := 24 * time.Hour

	assert.Equal(t, 30*day, spanDuration("1mo", "1d"))
	assert.Equal(t, 365*day, spanDuration("1y", "1d"))
	// Full daily history reaches decades back
	assert.Equal(t, 20*365*day, spanDuration("max", "1d"))
	// Intraday history is capped by what the upstream serves
	assert.Equal(t, maxIntradayDays*day, spanDuration("max", "1h"))
	assert.Equal(t, maxIntradayDays*day, spanDuration("max", "4h"))
	// Unknown labels default to a year
	assert.Equal(t, 365*day, spanDuration("whatever", "1d"))
}
