package strategycore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/config"
	"github.com/quantweb/quantbot/pkg/httputil"
	"github.com/quantweb/quantbot/pkg/logger"
)

// Client talks to the strategy-core backtest service.
// All oracle calls go through this client; the indicator and simulation
// math live on the other side of the wire. Transient upstream failures
// are retried by the HTTP layer.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a strategy-core client
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.New(log, cfg.StrategyCore.Timeout),
		logger:     log,
		baseURL:    cfg.StrategyCore.BaseURL,
	}
}

// runRequest is the wire request of both oracle endpoints
type runRequest struct {
	Series   *contracts.PriceSeries `json:"series"`
	Strategy contracts.Strategy     `json:"strategy"`
	Period   string                 `json:"period,omitempty"`
}

// Run backtests strategy over series on the trailing period.
// The service slices the evaluation window itself; indicators are computed
// over the full series it receives.
func (c *Client) Run(ctx context.Context, series *contracts.PriceSeries, strategy contracts.Strategy, period string) (*contracts.BacktestResult, error) {
	var result contracts.BacktestResult
	err := c.post(ctx, "/backtest/run", runRequest{
		Series:   series,
		Strategy: strategy,
		Period:   period,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Advise returns the current actionable setup for series+strategy
func (c *Client) Advise(ctx context.Context, series *contracts.PriceSeries, strategy contracts.Strategy) (*contracts.SignalAdvice, error) {
	var advice contracts.SignalAdvice
	err := c.post(ctx, "/backtest/advise", runRequest{
		Series:   series,
		Strategy: strategy,
	}, &advice)
	if err != nil {
		return nil, err
	}
	return &advice, nil
}

// post sends a JSON request and decodes the JSON response into dest
func (c *Client) post(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("strategy-core %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("strategy-core %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}
