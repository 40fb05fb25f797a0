// Package core defines the leaf types shared by the engine boundary, the
// adapter contract, and the client layer. It has no dependencies on the
// rest of the module so that engines and adapters can both import it.
package core

// Row is one result row: a fixed-arity sequence of engine-primitive
// values in column order.
type Row []any

// Column describes one column of a result set or a virtual table.
type Column struct {
	// Name is the column name as reported by the engine or declared by
	// an adapter.
	Name string

	// Type is the declared type, one of the Type* constants.
	Type string

	// Nullable indicates whether the column allows NULL values.
	Nullable bool
}

// Declared column types. Engines map these to their native storage
// classes; adapters use them to declare virtual-table schemas.
const (
	TypeInteger   = "INTEGER"
	TypeReal      = "REAL"
	TypeText      = "TEXT"
	TypeBlob      = "BLOB"
	TypeBoolean   = "BOOLEAN"
	TypeDate      = "DATE"
	TypeTime      = "TIME"
	TypeTimestamp = "TIMESTAMP"
)
