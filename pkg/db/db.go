// Package db is the client layer: it presents adapter-backed data
// sources through a conventional connect/cursor/execute/fetch interface
// with transaction semantics, materializing virtual tables on demand
// inside the underlying engine.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/hurley/pkg/adapter"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// Isolation levels for transaction framing. IsolationNone disables
// framing entirely: statements run without BEGIN/COMMIT around them.
const (
	IsolationDeferred  = "DEFERRED"
	IsolationImmediate = "IMMEDIATE"
	IsolationExclusive = "EXCLUSIVE"
	IsolationNone      = "none"
)

// DefaultBackend is the engine backend used when Options.Backend is
// empty. The corresponding package must be imported for its side
// effects, e.g.
//
//	import _ "github.com/leapstack-labs/hurley/pkg/engine/sqlite"
const DefaultBackend = "sqlite"

// Options configures a connection. The zero value selects the sqlite
// backend, all available adapters, safety off, and IMMEDIATE isolation.
type Options struct {
	// Adapters restricts the resolved adapter set to the named
	// adapters, in order. Nil means all available, subject to Safe.
	Adapters []string

	// AdapterArgs holds adapter-specific configuration keyed by
	// adapter name, passed to the adapter factory at materialization
	// time.
	AdapterArgs map[string]map[string]any

	// Safe restricts the resolved set to adapters declared safe. In
	// safe mode a nil Adapters list yields an empty set; safety
	// requires explicit opt-in per adapter.
	Safe bool

	// IsolationLevel is the BEGIN qualifier, or IsolationNone to run
	// without transaction framing. Empty means IsolationImmediate.
	IsolationLevel string

	// Backend names the engine backend. Empty means DefaultBackend.
	Backend string

	// Engine overrides backend selection with an already-open engine
	// handle. The connection takes ownership and closes it.
	Engine engine.Engine

	// BatchSize is the Fetchmany default. Zero means 1.
	BatchSize int

	// Logger receives debug-level statement logging. Nil discards.
	Logger *slog.Logger
}

// ColumnDescription describes one result-set column. DisplaySize,
// InternalSize, Precision and Scale are reserved for interface
// compatibility and always zero.
type ColumnDescription struct {
	Name         string
	Type         string
	DisplaySize  int
	InternalSize int
	Precision    int
	Scale        int
	NullOK       bool
}

// Connect opens a connection: it resolves the adapter set against the
// registry, opens the engine handle, and registers one virtual-table
// module per resolved adapter. Duplicate adapter names fail with an
// interface error.
func Connect(path string, opts Options) (*Connection, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resolved, err := adapter.Resolve(opts.Adapters, opts.Safe)
	if err != nil {
		return nil, wrapError(ErrInterface, err, "%s", err.Error())
	}

	eng := opts.Engine
	if eng == nil {
		name := opts.Backend
		if name == "" {
			name = DefaultBackend
		}
		factory, ok := lookupBackend(name)
		if !ok {
			return nil, newError(ErrInterface,
				"unknown backend %q (is the engine package imported?), available: %v",
				name, Backends())
		}
		eng, err = factory(path, logger)
		if err != nil {
			return nil, wrapError(ErrInterface, err, "opening %s backend: %s", name, err.Error())
		}
	}

	isolation := opts.IsolationLevel
	if isolation == "" {
		isolation = IsolationImmediate
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	conn := &Connection{
		eng:         eng,
		adapters:    resolved,
		adapterArgs: opts.AdapterArgs,
		isolation:   isolation,
		batchSize:   batchSize,
		log:         logger.With("connection", uuid.NewString()),
	}
	for _, r := range resolved {
		eng.RegisterModule(r.Name, &adapterModule{resolved: r, args: opts.AdapterArgs[r.Name]})
	}
	conn.log.Debug("connection opened",
		"path", path, "adapters", len(resolved), "isolation", isolation)
	return conn, nil
}

// With opens a connection, runs fn, commits on success, and releases the
// engine handle on every exit path. It is the scoped-resource form of
// Connect.
func With(path string, opts Options, fn func(*Connection) error) error {
	conn, err := Connect(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if !conn.closed {
			_ = conn.Close()
		}
	}()
	if err := fn(conn); err != nil {
		return err
	}
	if err := conn.Commit(); err != nil {
		return err
	}
	return conn.Close()
}

// adapterModule bridges a resolved adapter registration to the engine's
// virtual-table module contract.
type adapterModule struct {
	resolved adapter.Resolved
	args     map[string]any
}

func (m *adapterModule) Create(ctx context.Context, table string) (engine.VirtualTable, error) {
	a, err := m.resolved.New(ctx, table, m.args)
	if err != nil {
		return nil, fmt.Errorf("adapter %s: %w", m.resolved.Name, err)
	}
	return a, nil
}
