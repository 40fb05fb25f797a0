// Package commands implements the hurley CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hurley/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hurley",
		Short: "Hurley - query anything with SQL",
		Long: `Hurley lets a SQL engine treat pluggable data sources as ordinary
tables. Reference an adapter-backed table by its URI and hurley
materializes it on first use:

  SELECT * FROM "csv:///data/people.csv"`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hurley.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "engine backend: sqlite, duckdb")
	rootCmd.PersistentFlags().String("path", "", "data source locator (default: :memory:)")
	rootCmd.PersistentFlags().StringSlice("adapters", nil, "adapters to enable (default: all available)")
	rootCmd.PersistentFlags().Bool("safe", false, "only enable adapters declared safe")
	rootCmd.PersistentFlags().String("isolation", "", "isolation level: DEFERRED, IMMEDIATE, EXCLUSIVE, none")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewAdaptersCommand())

	return rootCmd
}

// loadConfig loads the CLI configuration honoring persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cfgFile, cmd.Root().PersistentFlags())
}

// newLogger builds the CLI logger; debug level when verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
