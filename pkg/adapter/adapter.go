// Package adapter provides the contract that pluggable data sources must
// implement, and the registry that resolves a requested set of adapters
// at connection-open time.
//
// Concrete adapter implementations live in pkg/adapters/ subdirectories
// and register themselves from init().
package adapter

import (
	"context"
	"errors"

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// ErrUnavailable marks an adapter whose optional dependencies are not
// met (for example, a network adapter with no configured endpoint).
// Load functions wrap it; resolution skips such adapters silently.
var ErrUnavailable = errors.New("adapter unavailable")

// Adapter is one instantiated data source, bound to a single table
// identifier. It declares a schema and streams rows; the engine
// materializes both into a virtual table.
type Adapter interface {
	// Columns returns the table schema.
	Columns(ctx context.Context) ([]core.Column, error)

	// Rows returns an iterator over the table data.
	Rows(ctx context.Context) (engine.RowIter, error)

	// Close releases any resources held by the instance.
	Close() error
}

// Factory builds an Adapter for a table identifier. args is the
// adapter-specific configuration the caller keyed by this adapter's
// registered name.
type Factory func(ctx context.Context, table string, args map[string]any) (Adapter, error)

// Registration describes one discoverable adapter.
type Registration struct {
	// Name is the registered adapter name, unique among loaded entries.
	Name string

	// Safe declares that the adapter has no access to local or
	// otherwise sensitive resources. Safety is a property of the
	// implementation, not configurable per instance.
	Safe bool

	// Supports reports whether this adapter can back the given
	// URI-like table identifier.
	Supports func(table string) bool

	// Load resolves the adapter's factory. It returns an error
	// wrapping ErrUnavailable when an optional dependency is unmet.
	Load func() (Factory, error)
}

// Resolved is a successfully loaded registry entry, ready to
// instantiate virtual tables.
type Resolved struct {
	Name     string
	Safe     bool
	Supports func(table string) bool
	New      Factory
}
