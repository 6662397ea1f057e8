// Package cli defines the bluenet command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bluenet",
	Short: "Maritime boundary crossing detection and escalation",
	Long: "Monitors position reports against a maritime zone, detects boundary\n" +
		"crossings, and escalates violations to an alert endpoint with cooldown\n" +
		"and per-episode limits.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
