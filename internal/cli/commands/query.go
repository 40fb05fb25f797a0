package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hurley/pkg/db"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute SQL against adapter-backed tables",
		Long: `Execute SQL statements against the configured engine. Tables named
like URIs are materialized on demand through the enabled adapters.

When invoked without arguments on a terminal, enters interactive REPL
mode.`,
		Example: `  # Query a CSV file
  hurley query 'SELECT * FROM "csv:///data/people.csv"'

  # Output as JSON
  hurley query 'SELECT 1 AS one' --format json

  # Interactive mode
  hurley query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format := opts.Format
	if format == "" {
		format = cfg.Format
	}

	connOpts := cfg.Options()
	connOpts.Logger = newLogger(cfg.Verbose)

	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, cfg.Path, connOpts, format)
	}

	return db.With(cfg.Path, connOpts, func(conn *db.Connection) error {
		cursor, err := conn.Execute(sqlQuery)
		if err != nil {
			return err
		}
		return renderCursor(cmd.OutOrStdout(), cursor, format)
	})
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
