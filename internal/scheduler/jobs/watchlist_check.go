package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantweb/quantbot/internal/contracts"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/internal/signal"
	"github.com/quantweb/quantbot/pkg/logger"
)

// WatchlistCheckJob is the periodic runner: for every persisted watchlist
// entry it finds the best configuration, checks signal freshness and
// dispatches an alert. Entries are processed sequentially; a failure on
// one entry is logged and never stops the loop.
type WatchlistCheckJob struct {
	store      contracts.WatchlistStore
	engine     *scanner.Engine
	checker    *signal.Checker
	dispatcher *signal.Dispatcher
	interval   time.Duration
	logger     *logger.Logger

	// lastAlerted dedupes alerts per (symbol -> marker time) while the
	// same bar remains the latest across multiple ticks
	mu          sync.Mutex
	lastAlerted map[string]int64
}

// NewWatchlistCheckJob creates the periodic watchlist check job
func NewWatchlistCheckJob(store contracts.WatchlistStore, engine *scanner.Engine, checker *signal.Checker, dispatcher *signal.Dispatcher, interval time.Duration, log *logger.Logger) *WatchlistCheckJob {
	return &WatchlistCheckJob{
		store:       store,
		engine:      engine,
		checker:     checker,
		dispatcher:  dispatcher,
		interval:    interval,
		logger:      log,
		lastAlerted: make(map[string]int64),
	}
}

// Name returns the job name
func (j *WatchlistCheckJob) Name() string {
	return "watchlist_check"
}

// Schedule returns the cron schedule derived from the configured interval
func (j *WatchlistCheckJob) Schedule() string {
	return fmt.Sprintf("@every %s", j.interval)
}

// Run executes one watchlist check tick
func (j *WatchlistCheckJob) Run(ctx context.Context) error {
	entries, err := j.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list watchlist: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	j.logger.WithField("entries", len(entries)).Info("Running watchlist signal check")

	for _, entry := range entries {
		j.checkEntry(ctx, entry)
	}

	return nil
}

// checkEntry evaluates a single entry; errors are logged, never returned
func (j *WatchlistCheckJob) checkEntry(ctx context.Context, entry contracts.WatchlistEntry) {
	log := j.logger.WithField("symbol", entry.Symbol)

	cfg, err := j.engine.FindBest(ctx, entry.Symbol, entry.Mode, manualOverride(entry))
	if err != nil {
		log.WithError(err).Error("Search failed for watchlist entry")
		return
	}
	if cfg == nil {
		return
	}

	event, err := j.checker.Check(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("Freshness check failed for watchlist entry")
		return
	}
	if event == nil {
		return
	}

	if j.alreadyAlerted(event) {
		log.WithField("signal_time", event.SignalTime).Debug("Signal already alerted, skipping")
		return
	}

	j.dispatcher.Dispatch(ctx, event)
	j.markAlerted(event)
}

func (j *WatchlistCheckJob) alreadyAlerted(event *contracts.AlertEvent) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastAlerted[event.Symbol] >= event.SignalTime
}

func (j *WatchlistCheckJob) markAlerted(event *contracts.AlertEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastAlerted[event.Symbol] = event.SignalTime
}

func manualOverride(entry contracts.WatchlistEntry) *scanner.ManualOverride {
	if entry.Mode != contracts.ModeManual {
		return nil
	}
	return &scanner.ManualOverride{
		Strategy:  entry.Strategy,
		Timeframe: entry.Timeframe,
		Period:    entry.Period,
	}
}
