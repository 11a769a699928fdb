package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// checkCmd runs a single watchlist signal check, the same work the
// scheduler performs on each tick.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one watchlist signal check and dispatch any fresh alerts",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info("Running one-off watchlist check")
	return a.watchJob.Run(context.Background())
}
