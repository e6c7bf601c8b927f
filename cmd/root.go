package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "setradar",
	Short: "SetRadar identifies individual tracks inside long-form audio.",
	Long: `SetRadar splits DJ sets and live recordings into fixed-length segments,
queries an audio-fingerprint recognition service for each segment, and
reconciles the per-segment results into an ordered tracklist with timestamps,
confidence scores and unidentified-gap reporting.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
