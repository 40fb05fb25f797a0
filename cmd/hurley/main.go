// Command hurley is the CLI for querying adapter-backed data sources
// with SQL.
package main

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/hurley/internal/cli/commands"

	// Engine backends.
	_ "github.com/leapstack-labs/hurley/pkg/engine/duckdb"
	_ "github.com/leapstack-labs/hurley/pkg/engine/sqlite"

	// Adapters.
	_ "github.com/leapstack-labs/hurley/pkg/adapters/csvfile"
	_ "github.com/leapstack-labs/hurley/pkg/adapters/memtable"
	_ "github.com/leapstack-labs/hurley/pkg/adapters/postgres"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
