// Package duckdb implements the engine boundary on top of
// marcboeker/go-duckdb. Importing it registers the "duckdb" backend:
//
//	import _ "github.com/leapstack-labs/hurley/pkg/engine/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/db"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

func init() {
	db.RegisterBackend("duckdb", func(path string, logger *slog.Logger) (engine.Engine, error) {
		return Open(path, logger)
	})
}

// Engine is a session-scoped DuckDB handle, pinned to one connection so
// raw transaction-control statements frame a single session.
type Engine struct {
	sqlDB   *sql.DB
	conn    *sql.Conn
	modules map[string]engine.Module
	log     *slog.Logger
}

// Open opens a DuckDB engine for the given path. ":memory:" selects an
// in-memory database.
func Open(path string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dsn := path
	if dsn == ":memory:" {
		dsn = ""
	}
	sqlDB, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	conn, err := sqlDB.Conn(context.Background())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinning duckdb connection: %w", err)
	}
	return &Engine{
		sqlDB:   sqlDB,
		conn:    conn,
		modules: make(map[string]engine.Module),
		log:     logger,
	}, nil
}

// RegisterModule makes a virtual-table module available to CREATE
// VIRTUAL TABLE statements.
func (e *Engine) RegisterModule(name string, m engine.Module) {
	e.modules[name] = m
}

// beginRe normalizes sqlite-style BEGIN qualifiers: DuckDB accepts only
// BEGIN TRANSACTION.
var beginRe = regexp.MustCompile(`(?i)^\s*BEGIN(\s+(DEFERRED|IMMEDIATE|EXCLUSIVE))?\s*;?\s*$`)

// Exec executes one statement on the pinned session.
func (e *Engine) Exec(sqlStr string, params []any) (*engine.Result, error) {
	ctx := context.Background()

	if table, module, ok := engine.ParseCreateVirtualTable(sqlStr); ok {
		return e.materialize(ctx, table, module)
	}
	if beginRe.MatchString(sqlStr) {
		sqlStr = "BEGIN TRANSACTION"
	}

	if engine.HasResultSet(sqlStr) {
		return e.query(ctx, sqlStr, params)
	}

	res, err := e.conn.ExecContext(ctx, sqlStr, params...)
	if err != nil {
		return nil, mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = -1
	}
	return &engine.Result{RowsAffected: affected}, nil
}

func (e *Engine) query(ctx context.Context, sqlStr string, params []any) (*engine.Result, error) {
	rows, err := e.conn.QueryContext(ctx, sqlStr, params...)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	columns := make([]core.Column, len(types))
	for i, t := range types {
		nullable, known := t.Nullable()
		columns[i] = core.Column{
			Name:     t.Name(),
			Type:     strings.ToUpper(t.DatabaseTypeName()),
			Nullable: nullable || !known,
		}
	}

	result := &engine.Result{Columns: columns, HasRows: true, RowsAffected: -1}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, core.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (e *Engine) materialize(ctx context.Context, table, module string) (*engine.Result, error) {
	m, ok := e.modules[module]
	if !ok {
		return nil, fmt.Errorf("no such module: %s", module)
	}
	vt, err := m.Create(ctx, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = vt.Close() }()

	columns, err := vt.Columns(ctx)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("module %s declared no columns for %s", module, table)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = engine.QuoteIdentifier(col.Name) + " " + columnType(col.Type)
	}
	create := "CREATE TABLE " + engine.QuoteIdentifier(table) + " (" + strings.Join(defs, ", ") + ")"
	if _, err := e.conn.ExecContext(ctx, create); err != nil {
		return nil, mapError(err)
	}

	iter, err := vt.Rows(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = iter.Close() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert := "INSERT INTO " + engine.QuoteIdentifier(table) + " VALUES (" + placeholders + ")"
	var loaded int64
	for {
		row, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		params := make([]any, len(row))
		for i, v := range row {
			params[i] = db.ConvertBinding(v)
		}
		if _, err := e.conn.ExecContext(ctx, insert, params...); err != nil {
			return nil, mapError(err)
		}
		loaded++
	}
	e.log.Debug("virtual table materialized", "table", table, "module", module, "rows", loaded)
	return &engine.Result{RowsAffected: loaded}, nil
}

// Close releases the pinned session and the database handle.
func (e *Engine) Close() error {
	connErr := e.conn.Close()
	dbErr := e.sqlDB.Close()
	return errors.Join(connErr, dbErr)
}

// columnType maps declared types to DuckDB column types. Temporal
// values arrive as ISO-8601 strings, so they are stored as VARCHAR.
func columnType(declared string) string {
	switch declared {
	case core.TypeBoolean:
		return core.TypeInteger
	case core.TypeDate, core.TypeTime, core.TypeTimestamp, core.TypeText, "":
		return "VARCHAR"
	case core.TypeReal:
		return "DOUBLE"
	case core.TypeBlob:
		return "BLOB"
	default:
		return declared
	}
}

// noSuchTableRe matches DuckDB's catalog error, e.g.
// `Catalog Error: Table with name "dummy://" does not exist!`.
var noSuchTableRe = regexp.MustCompile(`Table with name "?([^"!]+?)"? does not exist`)

func mapError(err error) error {
	if m := noSuchTableRe.FindStringSubmatch(err.Error()); m != nil {
		return &engine.NoSuchTableError{Table: m[1]}
	}
	return err
}
