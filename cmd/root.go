// Package cmd implements the CLI commands for townpipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "townpipe",
	Short: "townpipe converts Wizardawn settlement pages into structured towns",
	Long: `townpipe reads the HTML page produced by the Wizardawn settlement generator
and converts it into a town: a map, its buildings, and the people living in
them. The result is written as an HTML page, JSON, Markdown, or PDF, and can
be stored in a content store.

Usage:
  townpipe convert <file|url> [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log debug output to stderr")
}

// Execute runs the root command. An interrupt cancels the running conversion.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
