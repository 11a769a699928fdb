package main

import (
	"os"

	"github.com/quantweb/quantbot/cmd/quantbot/commands"
)

// main is the entry point for the QuantBot CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
