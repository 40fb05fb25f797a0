package db

import (
	"errors"
	"regexp"
	"strings"

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// tableURIRe matches the adapter-reference naming convention: table
// names that look like URIs ("dummy://", "csv:///data/file.csv").
var tableURIRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// Cursor executes one statement at a time against the engine and owns
// the result iteration state for the last statement. A cursor belongs
// to exactly one connection.
type Cursor struct {
	conn *Connection

	description []ColumnDescription
	rowcount    int64
	rows        []core.Row
	pos         int
	executed    bool
	closed      bool
}

// Execute runs one statement. Parameters are converted through
// ConvertBinding before reaching the engine.
//
// When the engine reports a missing table whose identifier is URI-like
// and some resolved adapter supports it, the cursor materializes the
// virtual table and retries the statement exactly once; a second
// missing-table failure surfaces as an UnsupportedTableError.
func (c *Cursor) Execute(sql string, params ...any) error {
	if c.closed {
		return newError(ErrInterface, "cursor already closed")
	}
	if c.conn.closed {
		return newError(ErrInterface, "connection already closed")
	}

	c.description = nil
	c.rowcount = -1
	c.rows = nil
	c.pos = 0
	c.executed = false

	if err := c.conn.beginIfNeeded(); err != nil {
		return err
	}

	converted := convertBindings(params)
	c.conn.log.Debug("execute", "sql", sql, "params", len(converted))

	res, err := c.conn.eng.Exec(sql, converted)
	var missing *engine.NoSuchTableError
	if errors.As(err, &missing) {
		res, err = c.retryWithVirtualTable(sql, converted, missing.Table)
	}
	if err != nil {
		var unsupported *UnsupportedTableError
		var dbErr *dbError
		if errors.As(err, &unsupported) || errors.As(err, &dbErr) {
			return err
		}
		return wrapError(ErrProgramming, err, "%s", err.Error())
	}

	c.executed = true
	if res.HasRows {
		c.description = describeColumns(res.Columns)
		c.rows = res.Rows
		c.rowcount = int64(len(res.Rows))
	} else {
		c.rowcount = res.RowsAffected
	}
	return nil
}

// retryWithVirtualTable handles the missing-table condition: it creates
// the virtual table for the first matching adapter and retries the
// original statement once.
func (c *Cursor) retryWithVirtualTable(sql string, params []any, table string) (*engine.Result, error) {
	table = stripSchemaQualifier(table)
	if !tableURIRe.MatchString(table) {
		return nil, &UnsupportedTableError{Table: table}
	}
	resolved, ok := c.conn.findAdapter(table)
	if !ok {
		return nil, &UnsupportedTableError{Table: table}
	}

	createSQL := engine.CreateVirtualTableSQL(table, resolved.Name)
	c.conn.log.Debug("materializing virtual table", "table", table, "adapter", resolved.Name)
	if _, err := c.conn.eng.Exec(createSQL, nil); err != nil {
		return nil, wrapError(ErrProgramming, err, "%s", err.Error())
	}

	res, err := c.conn.eng.Exec(sql, params)
	var missing *engine.NoSuchTableError
	if errors.As(err, &missing) {
		return nil, &UnsupportedTableError{Table: missing.Table}
	}
	return res, err
}

// stripSchemaQualifier removes a leading schema qualifier from a
// reported table identifier: a schema-prefixed reference like
// SELECT * FROM main."mem://people" is reported back as
// "main.mem://people", which would never match an adapter scheme.
func stripSchemaQualifier(table string) string {
	if tableURIRe.MatchString(table) {
		return table
	}
	if i := strings.IndexByte(table, '.'); i >= 0 && tableURIRe.MatchString(table[i+1:]) {
		return table[i+1:]
	}
	return table
}

// ExecuteMany always fails: the retry protocol assumes a
// single-statement execution unit.
func (c *Cursor) ExecuteMany(sql string, paramSets [][]any) error {
	return newError(ErrNotSupported, "executemany is not supported, use execute instead")
}

// Fetchone returns the next unread row, or (nil, nil) once the result
// sequence is exhausted.
func (c *Cursor) Fetchone() (core.Row, error) {
	if err := c.checkResult(); err != nil {
		return nil, err
	}
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

// Fetchmany returns up to n unread rows. n <= 0 uses the
// connection-configured batch size.
func (c *Cursor) Fetchmany(n int) ([]core.Row, error) {
	if err := c.checkResult(); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = c.conn.batchSize
	}
	end := c.pos + n
	if end > len(c.rows) {
		end = len(c.rows)
	}
	out := make([]core.Row, end-c.pos)
	copy(out, c.rows[c.pos:end])
	c.pos = end
	return out, nil
}

// Fetchall returns every unread row.
func (c *Cursor) Fetchall() ([]core.Row, error) {
	if err := c.checkResult(); err != nil {
		return nil, err
	}
	out := make([]core.Row, len(c.rows)-c.pos)
	copy(out, c.rows[c.pos:])
	c.pos = len(c.rows)
	return out, nil
}

func (c *Cursor) checkResult() error {
	if c.closed {
		return newError(ErrInterface, "cursor already closed")
	}
	if !c.executed {
		return newError(ErrProgramming, "called before execute")
	}
	return nil
}

// Description returns the column metadata for the last statement, or
// nil when it produced no result set.
func (c *Cursor) Description() []ColumnDescription { return c.description }

// RowCount returns the row count for the last statement: the result-set
// size for queries, the affected-row count for other statements, -1
// when unknown.
func (c *Cursor) RowCount() int64 { return c.rowcount }

// InTransaction reports the owning connection's transaction state.
func (c *Cursor) InTransaction() bool { return c.conn.inTx }

// SetInputSizes is accepted as a no-op for interface compatibility.
func (c *Cursor) SetInputSizes(sizes ...int) {}

// SetOutputSizes is accepted as a no-op for interface compatibility.
func (c *Cursor) SetOutputSizes(sizes ...int) {}

// Close releases the cursor. Closing an already-closed cursor is an
// interface error; closing the connection closes its cursors once.
func (c *Cursor) Close() error {
	if c.closed {
		return newError(ErrInterface, "cursor already closed")
	}
	c.closed = true
	c.description = nil
	c.rows = nil
	return nil
}

func describeColumns(cols []core.Column) []ColumnDescription {
	out := make([]ColumnDescription, len(cols))
	for i, col := range cols {
		out[i] = ColumnDescription{
			Name:   col.Name,
			Type:   col.Type,
			NullOK: col.Nullable,
		}
	}
	return out
}
