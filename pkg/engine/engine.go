// Package engine defines the boundary between the client layer and the
// underlying relational engine. Implementations live in subdirectories
// (pkg/engine/sqlite, pkg/engine/duckdb).
package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/hurley/pkg/core"
)

// Engine is the underlying relational engine. It executes parameterized
// statements, including transaction control (BEGIN/COMMIT/ROLLBACK) and
// virtual-table creation statements of the shape
//
//	CREATE VIRTUAL TABLE "<identifier>" USING <module>()
//
// where <module> was previously registered with RegisterModule.
//
// Engines are session-scoped: all statements run on one engine handle
// share transaction state. They are not safe for concurrent use.
type Engine interface {
	// Exec executes a single statement with the given engine-primitive
	// parameters. A reference to a table that does not exist is reported
	// as a *NoSuchTableError.
	Exec(sql string, params []any) (*Result, error)

	// RegisterModule makes a virtual-table module available under the
	// given name. Registering the same name twice replaces the module.
	RegisterModule(name string, m Module)

	// Close releases the engine handle. The handle must not be used
	// afterwards.
	Close() error
}

// Result is the fully materialized outcome of one statement. The client
// layer is single-threaded and buffers results eagerly, so engines
// return everything at once rather than exposing a row iterator.
type Result struct {
	// Columns is the result-set metadata, nil when HasRows is false.
	Columns []core.Column

	// Rows holds every result row in order.
	Rows []core.Row

	// RowsAffected is the engine-reported affected-row count for
	// statements without a result set, -1 when unknown.
	RowsAffected int64

	// HasRows reports whether the statement produced a result set,
	// even an empty one.
	HasRows bool
}

// Module creates virtual tables on demand. One module is registered per
// resolved adapter; the engine calls it when it executes a CREATE
// VIRTUAL TABLE statement naming the module.
type Module interface {
	// Create instantiates the virtual table backing the given table
	// identifier.
	Create(ctx context.Context, table string) (VirtualTable, error)
}

// VirtualTable is one materializable table instance: a declared schema
// plus a row stream.
type VirtualTable interface {
	// Columns returns the table schema.
	Columns(ctx context.Context) ([]core.Column, error)

	// Rows returns an iterator over the table data. The caller owns the
	// iterator and must close it.
	Rows(ctx context.Context) (RowIter, error)

	// Close releases any resources held by the table instance.
	Close() error
}

// RowIter streams rows out of a virtual table.
type RowIter interface {
	// Next returns the next row, or (nil, io.EOF) once the stream is
	// exhausted.
	Next() (core.Row, error)

	// Close releases the stream. It is safe to call after exhaustion.
	Close() error
}

// NoSuchTableError reports a statement referencing a table unknown to
// the engine. The client layer uses it to drive lazy virtual-table
// materialization.
type NoSuchTableError struct {
	// Table is the missing table identifier as reported by the engine.
	Table string
}

func (e *NoSuchTableError) Error() string {
	return fmt.Sprintf("no such table: %s", e.Table)
}
