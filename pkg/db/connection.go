package db

import (
	"log/slog"

	"github.com/leapstack-labs/hurley/pkg/adapter"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// Connection owns the engine handle, the resolved adapter set, the open
// cursors, and the transaction state shared by those cursors. It is not
// safe for concurrent use; callers needing concurrency must serialize
// access or open independent connections.
type Connection struct {
	eng         engine.Engine
	adapters    []adapter.Resolved
	adapterArgs map[string]map[string]any
	isolation   string
	batchSize   int
	log         *slog.Logger

	cursors []*Cursor
	inTx    bool
	closed  bool
}

// Cursor returns a new cursor owned by this connection.
func (c *Connection) Cursor() (*Cursor, error) {
	if c.closed {
		return nil, newError(ErrInterface, "connection already closed")
	}
	cur := &Cursor{conn: c, rowcount: -1}
	c.cursors = append(c.cursors, cur)
	return cur, nil
}

// Execute is a convenience that obtains a cursor and executes one
// statement on it.
func (c *Connection) Execute(sql string, params ...any) (*Cursor, error) {
	cur, err := c.Cursor()
	if err != nil {
		return nil, err
	}
	if err := cur.Execute(sql, params...); err != nil {
		return nil, err
	}
	return cur, nil
}

// Commit ends the current transaction, if one is open. While idle it is
// a no-op: no statement reaches the engine.
func (c *Connection) Commit() error {
	return c.endTransaction("COMMIT")
}

// Rollback aborts the current transaction, if one is open. While idle
// it is a no-op.
func (c *Connection) Rollback() error {
	return c.endTransaction("ROLLBACK")
}

func (c *Connection) endTransaction(stmt string) error {
	if c.closed {
		return newError(ErrInterface, "connection already closed")
	}
	if !c.inTx {
		return nil
	}
	if _, err := c.eng.Exec(stmt, nil); err != nil {
		return wrapError(ErrProgramming, err, "%s", err.Error())
	}
	c.inTx = false
	c.log.Debug("transaction ended", "stmt", stmt)
	return nil
}

// beginIfNeeded opens a transaction before the first statement after
// connect, commit or rollback. The engine never sees two consecutive
// BEGINs without an intervening COMMIT or ROLLBACK.
func (c *Connection) beginIfNeeded() error {
	if c.inTx || c.isolation == IsolationNone {
		return nil
	}
	if _, err := c.eng.Exec("BEGIN "+c.isolation, nil); err != nil {
		return wrapError(ErrProgramming, err, "%s", err.Error())
	}
	c.inTx = true
	return nil
}

// InTransaction reports whether the connection has an open transaction.
func (c *Connection) InTransaction() bool { return c.inTx }

// Closed reports whether Close has been called.
func (c *Connection) Closed() bool { return c.closed }

// Close closes every still-open cursor and releases the engine handle.
// Closing an already-closed connection is an interface error.
func (c *Connection) Close() error {
	if c.closed {
		return newError(ErrInterface, "connection already closed")
	}
	c.closed = true
	for _, cur := range c.cursors {
		if cur.closed {
			continue
		}
		_ = cur.Close()
	}
	err := c.eng.Close()
	c.log.Debug("connection closed")
	if err != nil {
		return wrapError(ErrInterface, err, "closing engine: %s", err.Error())
	}
	return nil
}

// findAdapter returns the first resolved adapter that supports the
// given table identifier, in resolution order.
func (c *Connection) findAdapter(table string) (adapter.Resolved, bool) {
	for _, r := range c.adapters {
		if r.Supports != nil && r.Supports(table) {
			return r, true
		}
	}
	return adapter.Resolved{}, false
}
