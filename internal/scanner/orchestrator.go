package scanner

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/pkg/logger"
)

// Elite subset thresholds
const (
	eliteMinWinRate = 60.0
	eliteMinTrades  = 15
	eliteTop        = 10
)

// ScanResult is one instrument's best configuration annotated for display
type ScanResult struct {
	contracts.Configuration
	Reason string `json:"reason"`
}

// SectorScan is the outcome of a sector/bulk scan
type SectorScan struct {
	Sector  string        `json:"sector"`
	Results []*ScanResult `json:"results"`
	Elite   []*ScanResult `json:"elite_signals"`
}

// WatchlistRow projects a watchlist entry's best configuration for display
type WatchlistRow struct {
	Symbol    string             `json:"symbol"`
	Mode      contracts.Mode     `json:"mode"`
	Strategy  contracts.Strategy `json:"strategy"`
	Timeframe string             `json:"timeframe"`
	Period    string             `json:"period"`
	GrowthUSD float64            `json:"growth_usd"`
	GrowthPct float64            `json:"growth_pct"`
	WinRate   float64            `json:"win_rate"`
}

// Orchestrator drives the search engine across instrument batches
type Orchestrator struct {
	engine  *Engine
	store   contracts.WatchlistStore
	capital float64
	logger  *logger.Logger
}

// NewOrchestrator creates a scan orchestrator.
// capital is the notional capital growth percentages are relative to.
func NewOrchestrator(engine *Engine, store contracts.WatchlistStore, capital float64, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		engine:  engine,
		store:   store,
		capital: capital,
		logger:  log,
	}
}

// ScanSector runs the AUTO search over every instrument of a sector and
// separately extracts the elite subset. Unknown sectors are an error;
// per-instrument failures are logged and the instrument omitted.
func (o *Orchestrator) ScanSector(ctx context.Context, sector string) (*SectorScan, error) {
	symbols := SectorSymbols(sector)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("unknown sector %q", sector)
	}

	scan := &SectorScan{
		Sector:  sector,
		Results: []*ScanResult{},
		Elite:   []*ScanResult{},
	}

	for _, symbol := range symbols {
		cfg, err := o.engine.FindBest(ctx, symbol, contracts.ModeAuto, nil)
		if err != nil {
			o.logger.WithError(err).WithField("symbol", symbol).Warn("Scan failed for instrument, skipping")
			continue
		}
		if cfg == nil {
			continue
		}

		result := &ScanResult{
			Configuration: *cfg,
			Reason:        MarketReason(cfg.Strategy),
		}
		scan.Results = append(scan.Results, result)

		if cfg.Metrics.WinRate >= eliteMinWinRate && cfg.Metrics.TotalTrades >= eliteMinTrades {
			scan.Elite = append(scan.Elite, result)
		}
	}

	// Descending by (win_rate, trades), lexicographically
	sort.SliceStable(scan.Elite, func(i, j int) bool {
		a, b := scan.Elite[i].Metrics, scan.Elite[j].Metrics
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.TotalTrades > b.TotalTrades
	})
	if len(scan.Elite) > eliteTop {
		scan.Elite = scan.Elite[:eliteTop]
	}

	return scan, nil
}

// ScanWatchlist evaluates every persisted watchlist entry with its stored
// mode/override and projects the results for display. A failure on one
// entry never aborts the batch.
func (o *Orchestrator) ScanWatchlist(ctx context.Context) ([]WatchlistRow, error) {
	entries, err := o.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}

	rows := []WatchlistRow{}
	for _, entry := range entries {
		cfg, err := o.engine.FindBest(ctx, entry.Symbol, entry.Mode, overrideFor(entry))
		if err != nil {
			o.logger.WithError(err).WithField("symbol", entry.Symbol).Warn("Watchlist scan failed for entry, skipping")
			continue
		}
		if cfg == nil {
			continue
		}

		growthPct := 0.0
		if o.capital > 0 {
			growthPct = math.Round(cfg.Metrics.NetProfit/o.capital*100*100) / 100
		}

		rows = append(rows, WatchlistRow{
			Symbol:    entry.Symbol,
			Mode:      entry.Mode,
			Strategy:  cfg.Strategy,
			Timeframe: cfg.Timeframe,
			Period:    cfg.Period,
			GrowthUSD: cfg.Metrics.NetProfit,
			GrowthPct: growthPct,
			WinRate:   cfg.Metrics.WinRate,
		})
	}

	return rows, nil
}

// overrideFor builds the manual override from a watchlist entry's stored
// fields; AUTO entries carry none
func overrideFor(entry contracts.WatchlistEntry) *ManualOverride {
	if entry.Mode != contracts.ModeManual {
		return nil
	}
	return &ManualOverride{
		Strategy:  entry.Strategy,
		Timeframe: entry.Timeframe,
		Period:    entry.Period,
	}
}
