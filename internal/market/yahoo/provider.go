package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/time/rate"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/config"
	"github.com/quantweb/quantbot/pkg/logger"
	"github.com/quantweb/quantbot/pkg/redis"
)

// Yahoo serves no intraday history older than ~730 days
const maxIntradayDays = 720

// Provider retrieves candles from the Yahoo Finance chart API.
// Requests are rate limited, and fetched series are shared through a
// short-lived cache so concurrent invocations over the same instrument
// don't hit the upstream twice.
type Provider struct {
	limiter  *rate.Limiter
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// New creates a Yahoo market data provider
func New(cfg *config.Config, cache *redis.Cache, log *logger.Logger) *Provider {
	rps := cfg.Market.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Provider{
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		cache:    cache,
		cacheTTL: cfg.Market.CacheTTL,
		logger:   log,
	}
}

// Fetch returns candles for symbol at interval covering span.
// An empty upstream result yields an empty series, not an error.
func (p *Provider) Fetch(ctx context.Context, symbol, interval, span string) (*contracts.PriceSeries, error) {
	cacheKey := fmt.Sprintf("series:%s:%s:%s", symbol, interval, span)

	if p.cache != nil && p.cacheTTL > 0 {
		var cached contracts.PriceSeries
		if hit, err := p.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	// Yahoo has no native 4h bars; aggregate 1h
	fetchInterval := interval
	if interval == "4h" {
		fetchInterval = "1h"
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	candles, err := p.fetchChart(ctx, symbol, fetchInterval, span)
	if err != nil {
		return nil, err
	}

	if interval == "4h" {
		candles = resample(candles, 4*time.Hour)
	}

	series := &contracts.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Candles:  candles,
	}

	p.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"interval": interval,
		"span":     span,
		"bars":     series.Len(),
	}).Debug("Fetched price series")

	if p.cache != nil && p.cacheTTL > 0 {
		if err := p.cache.Set(ctx, cacheKey, series, p.cacheTTL); err != nil {
			p.logger.WithError(err).Warn("Failed to cache price series")
		}
	}

	return series, nil
}

// fetchChart calls the Yahoo chart API for one symbol+interval
func (p *Provider) fetchChart(ctx context.Context, symbol, interval, span string) ([]contracts.Candle, error) {
	yahooInterval, err := toYahooInterval(interval)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.Add(-spanDuration(span, interval))

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: yahooInterval,
	}

	iter := chart.Get(params)

	var candles []contracts.Candle
	for iter.Next() {
		bar := iter.Bar()
		candles = append(candles, contracts.Candle{
			Time:   int64(bar.Timestamp),
			Open:   bar.Open.InexactFloat64(),
			High:   bar.High.InexactFloat64(),
			Low:    bar.Low.InexactFloat64(),
			Close:  bar.Close.InexactFloat64(),
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s %s: %w", symbol, interval, err)
	}

	_ = ctx // the finance-go iterator has no context hook; the limiter above honors it
	return candles, nil
}

// toYahooInterval maps a core interval to the Yahoo chart interval
func toYahooInterval(interval string) (datetime.Interval, error) {
	switch interval {
	case "1h":
		return datetime.OneHour, nil
	case "1d":
		return datetime.OneDay, nil
	default:
		return "", fmt.Errorf("unsupported interval %q", interval)
	}
}

// spanDuration resolves a span label to a lookback window.
// "max" is capped by what Yahoo actually serves for the interval.
func spanDuration(span, interval string) time.Duration {
	day := 24 * time.Hour

	switch span {
	case "1mo":
		return 30 * day
	case "3mo":
		return 91 * day
	case "6mo":
		return 182 * day
	case "1y":
		return 365 * day
	case "2y":
		return 730 * day
	case "max":
		if interval == "1h" || interval == "4h" {
			return maxIntradayDays * day
		}
		return 20 * 365 * day
	default:
		return 365 * day
	}
}

// resample aggregates candles into fixed buckets, first open / max high /
// min low / last close / summed volume
func resample(candles []contracts.Candle, bucket time.Duration) []contracts.Candle {
	if len(candles) == 0 {
		return candles
	}

	size := int64(bucket / time.Second)
	var out []contracts.Candle

	for _, c := range candles {
		bucketTime := c.Time - c.Time%size

		if len(out) > 0 && out[len(out)-1].Time == bucketTime {
			last := &out[len(out)-1]
			if c.High > last.High {
				last.High = c.High
			}
			if c.Low < last.Low {
				last.Low = c.Low
			}
			last.Close = c.Close
			last.Volume += c.Volume
			continue
		}

		out = append(out, contracts.Candle{
			Time:   bucketTime,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}

	return out
}
