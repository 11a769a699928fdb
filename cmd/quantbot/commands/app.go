package commands

import (
	"fmt"

	"github.com/quantweb/quantbot/internal/market/yahoo"
	"github.com/quantweb/quantbot/internal/notify"
	"github.com/quantweb/quantbot/internal/oracle/strategycore"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/internal/scheduler/jobs"
	"github.com/quantweb/quantbot/internal/signal"
	"github.com/quantweb/quantbot/internal/watchlist"
	"github.com/quantweb/quantbot/pkg/config"
	"github.com/quantweb/quantbot/pkg/database"
	"github.com/quantweb/quantbot/pkg/logger"
	"github.com/quantweb/quantbot/pkg/redis"
)

// app bundles the wired application components
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB
	redis  *redis.Client

	provider     *yahoo.Provider
	oracle       *strategycore.Client
	store        *watchlist.Repository
	notifier     *notify.Telegram
	engine       *scanner.Engine
	orchestrator *scanner.Orchestrator
	checker      *signal.Checker
	dispatcher   *signal.Dispatcher
	watchJob     *jobs.WatchlistCheckJob
}

// initApp wires the full dependency graph
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// External collaborators
	provider := yahoo.New(cfg, redis.NewCache(redisClient, "quantbot"), log)
	oracle := strategycore.NewClient(cfg, log)
	notifier := notify.NewTelegram(cfg, log)
	store := watchlist.NewRepository(db.Pool)

	// Core pipeline
	space := scanner.DefaultSearchSpace()
	engine := scanner.NewEngine(provider, oracle, space, log)
	orchestrator := scanner.NewOrchestrator(engine, store, cfg.Scan.Capital, log)
	checker := signal.NewChecker(provider, oracle, log)
	dispatcher := signal.NewDispatcher(notifier, log)
	watchJob := jobs.NewWatchlistCheckJob(store, engine, checker, dispatcher, cfg.Scan.Interval, log)

	return &app{
		cfg:          cfg,
		logger:       log,
		db:           db,
		redis:        redisClient,
		provider:     provider,
		oracle:       oracle,
		store:        store,
		notifier:     notifier,
		engine:       engine,
		orchestrator: orchestrator,
		checker:      checker,
		dispatcher:   dispatcher,
		watchJob:     watchJob,
	}, nil
}

// close releases held connections
func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
