package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantweb/quantbot/internal/api"
	"github.com/quantweb/quantbot/internal/api/handlers"
	"github.com/quantweb/quantbot/internal/scanner"
	"github.com/quantweb/quantbot/internal/scheduler"
)

// serveCmd starts the API server and the periodic watchlist checker
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and periodic signal checker",
	Long: `Starts the HTTP API and schedules the watchlist signal check.

The watchlist check runs on the configured SCAN_INTERVAL. Stop with
Ctrl+C; shutdown is graceful.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Scheduler with the periodic watchlist check
	sched := scheduler.New(a.logger)
	if err := sched.AddJob(a.watchJob); err != nil {
		return fmt.Errorf("register watchlist job: %w", err)
	}

	// HTTP API
	watchlistHandler := handlers.NewWatchlistHandler(a.store, a.orchestrator, a.logger)
	scanHandler := handlers.NewScanHandler(a.orchestrator, a.logger)
	backtestHandler := handlers.NewBacktestHandler(a.provider, a.oracle, scanner.DefaultSearchSpace(), a.logger)
	alertHandler := handlers.NewAlertHandler(a.notifier, a.logger)
	schedulerHandler := handlers.NewSchedulerHandler(sched, a.logger)

	router := api.NewRouter(watchlistHandler, scanHandler, backtestHandler, alertHandler, schedulerHandler, a.logger)
	server := api.New(a.cfg, a.logger, router)

	sched.Start()

	// Startup notification, best effort
	notifyCtx, cancelNotify := context.WithTimeout(context.Background(), 10*time.Second)
	if err := a.notifier.Send(notifyCtx, "🟢 **SYSTEM ACTIVE**\n\nQuantBot is running."); err != nil {
		a.logger.WithError(err).Warn("Startup notification failed")
	}
	cancelNotify()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		sched.Stop()
		return err
	case <-quit:
	}

	a.logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("Server shutdown failed")
	}
	sched.Stop()

	if err := a.notifier.Send(shutdownCtx, "🔴 **SYSTEM INACTIVE**\n\nQuantBot has been stopped."); err != nil {
		a.logger.WithError(err).Warn("Shutdown notification failed")
	}

	return nil
}
