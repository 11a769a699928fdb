package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantbot",
	Short: "QuantBot - strategy scanner and signal alert bot",
	Long: `QuantBot CLI

Scans instruments for their best strategy configuration and watches the
persisted watchlist for fresh trading signals.

Usage:
  go run ./cmd/quantbot [command]

Examples:
  go run ./cmd/quantbot serve
  go run ./cmd/quantbot scan BIG_CAP
  go run ./cmd/quantbot check`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
