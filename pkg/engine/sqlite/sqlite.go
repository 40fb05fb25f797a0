// Package sqlite implements the engine boundary on top of
// modernc.org/sqlite. Importing it registers the "sqlite" backend:
//
//	import _ "github.com/leapstack-labs/hurley/pkg/engine/sqlite"
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/db"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

func init() {
	db.RegisterBackend("sqlite", func(path string, logger *slog.Logger) (engine.Engine, error) {
		return Open(path, logger)
	})
}

// Engine is a session-scoped sqlite handle. All statements run on one
// pinned connection so that raw BEGIN/COMMIT/ROLLBACK statements frame
// a single session rather than bouncing across a pool.
type Engine struct {
	sqlDB   *sql.DB
	conn    *sql.Conn
	modules map[string]engine.Module
	log     *slog.Logger
}

// Open opens a sqlite engine for the given path (conventionally
// ":memory:").
func Open(path string, logger *slog.Logger) (*Engine, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return pin(sqlDB, logger)
}

// NewWithDB wraps an already-open database handle. Used by tests that
// substitute a mock driver.
func NewWithDB(sqlDB *sql.DB, logger *slog.Logger) (*Engine, error) {
	sqlDB.SetMaxOpenConns(1)
	return pin(sqlDB, logger)
}

func pin(sqlDB *sql.DB, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conn, err := sqlDB.Conn(context.Background())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinning sqlite connection: %w", err)
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

// Exec executes one statement on the pinned session.
func (e *Engine) Exec(sqlStr string, params []any) (*engine.Result, error) {
	ctx := context.Background()

	if table, module, ok := engine.ParseCreateVirtualTable(sqlStr); ok {
		return e.materialize(ctx, table, module)
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
		declared := t.DatabaseTypeName()
		if declared == "" {
			declared = core.TypeText
		}
		nullable, known := t.Nullable()
		columns[i] = core.Column{
			Name:     t.Name(),
			Type:     strings.ToUpper(declared),
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

// materialize creates a real table from the module's virtual table and
// loads its rows, inside the session's current transaction.
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

	if _, err := e.conn.ExecContext(ctx, createTableSQL(table, columns)); err != nil {
		return nil, mapError(err)
	}

	iter, err := vt.Rows(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = iter.Close() }()

	insert := insertSQL(table, len(columns))
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

// storageType maps a declared column type to a sqlite storage class.
func storageType(declared string) string {
	switch declared {
	case core.TypeBoolean:
		return core.TypeInteger
	case core.TypeDate, core.TypeTime, core.TypeTimestamp:
		return core.TypeText
	case "":
		return core.TypeText
	default:
		return declared
	}
}

func createTableSQL(table string, columns []core.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = engine.QuoteIdentifier(col.Name) + " " + storageType(col.Type)
	}
	return "CREATE TABLE " + engine.QuoteIdentifier(table) + " (" + strings.Join(defs, ", ") + ")"
}

func insertSQL(table string, arity int) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", arity), ", ")
	return "INSERT INTO " + engine.QuoteIdentifier(table) + " VALUES (" + placeholders + ")"
}

// noSuchTableRe matches the driver's missing-table message, e.g.
// "SQL logic error: no such table: dummy:// (1)".
var noSuchTableRe = regexp.MustCompile(`no such table:\s*(.+?)(?:\s*\(\d+\))?$`)

func mapError(err error) error {
	if m := noSuchTableRe.FindStringSubmatch(err.Error()); m != nil {
		return &engine.NoSuchTableError{Table: m[1]}
	}
	return err
}
