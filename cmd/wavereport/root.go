// Package main provides the entry point for the wavereport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wavereport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wavereport",
		Short: "Accessibility scanning and trend reporting via WAVE",
		Long: `wavereport drives the WAVE web accessibility evaluation tool against a
list of URLs, recording per-run metrics and full-page screenshots into
append-only result files. Repeated runs accumulate history, and the
report command turns that history into one self-contained interactive
HTML document with trend charts and a sortable results table.

Scanning needs a local Chrome or Chromium installation.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose logging (replaces progress bars with log lines)")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
