package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// scanCmd runs a one-off sector scan and prints the result as JSON
var scanCmd = &cobra.Command{
	Use:   "scan [sector]",
	Short: "Scan a market sector for the best configuration per symbol",
	Long: `Runs the full configuration search for every symbol in the sector
and prints the results, including elite signals, as JSON.

Sectors: BIG_CAP, AI_COINS, MEME_COINS, EXCHANGE_TOKENS, DEX_DEFI,
LAYER_2, US_TECH, or ALL.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	sector := strings.ToUpper(strings.TrimSpace(args[0]))

	result, err := a.orchestrator.ScanSector(context.Background(), sector)
	if err != nil {
		return fmt.Errorf("scan sector %s: %w", sector, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
