// Package cmd implements the CLI commands for protpipe using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/protpipe/config"
	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagConfig  string

	// cfg and logger are set before every command runs.
	cfg    = &config.Config{}
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "protpipe",
	Short: "protpipe — export variant-effect annotations as protein databases",
	Long: `protpipe turns precomputed transcript variant-effect annotations into an
mzLibProteinDb protein database (XML), or a JSON, HTML, Markdown or PDF report.

Usage:
  protpipe export <source> [flags]
  protpipe store <manifest> --db <path>`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = c

		level := slog.LevelWarn
		if flagVerbose || cfg.Verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.protpipe/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
