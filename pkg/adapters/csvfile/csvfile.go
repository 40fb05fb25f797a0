// Package csvfile provides an adapter surfacing local CSV files as
// tables under csv:// identifiers, e.g.
//
//	SELECT * FROM "csv:///data/people.csv"
//
// The first record is the header; column types are inferred from the
// data (INTEGER, then REAL, then TEXT). The adapter reads the local
// filesystem and is therefore not safe.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hurley/pkg/adapter"
	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// Name is the registered adapter name.
const Name = "csvfile"

const scheme = "csv://"

func init() {
	adapter.Register(adapter.Registration{
		Name:     Name,
		Safe:     false,
		Supports: Supports,
		Load: func() (adapter.Factory, error) {
			return New, nil
		},
	})
}

// Args is the adapter configuration.
type Args struct {
	// Comma overrides the field delimiter, e.g. ";" or "\t".
	Comma string `mapstructure:"comma"`

	// Root, when set, resolves relative paths and confines access to
	// the given directory.
	Root string `mapstructure:"root"`
}

// Supports reports whether the table identifier is a csv:// reference.
func Supports(table string) bool {
	return strings.HasPrefix(table, scheme)
}

// New instantiates the adapter for one csv:// table identifier. The
// file is read once, at materialization time.
func New(ctx context.Context, table string, args map[string]any) (adapter.Adapter, error) {
	var cfg Args
	if err := adapter.DecodeArgs(args, &cfg); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(table, scheme)
	if cfg.Root != "" {
		path = filepath.Join(cfg.Root, filepath.Clean("/"+path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	if cfg.Comma != "" {
		r.Comma = []rune(cfg.Comma)[0]
	}

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		records = append(records, record)
	}

	return &fileAdapter{
		columns: inferColumns(header, records),
		records: records,
	}, nil
}

type fileAdapter struct {
	columns []core.Column
	records [][]string
}

func (f *fileAdapter) Columns(ctx context.Context) ([]core.Column, error) {
	return f.columns, nil
}

func (f *fileAdapter) Rows(ctx context.Context) (engine.RowIter, error) {
	rows := make([]core.Row, len(f.records))
	for i, record := range f.records {
		row := make(core.Row, len(f.columns))
		for j := range f.columns {
			if j < len(record) {
				row[j] = coerce(record[j], f.columns[j].Type)
			}
		}
		rows[i] = row
	}
	return adapter.NewSliceIter(rows), nil
}

func (f *fileAdapter) Close() error { return nil }

// inferColumns derives a schema from the header and data: a column is
// INTEGER if every non-empty value parses as an integer, REAL if every
// non-empty value parses as a float, TEXT otherwise.
func inferColumns(header []string, records [][]string) []core.Column {
	columns := make([]core.Column, len(header))
	for i, name := range header {
		columns[i] = core.Column{Name: name, Type: inferType(i, records), Nullable: true}
	}
	return columns
}

func inferType(col int, records [][]string) string {
	isInt, isReal, seen := true, true, false
	for _, record := range records {
		if col >= len(record) || record[col] == "" {
			continue
		}
		seen = true
		v := record[col]
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isReal = false
		}
	}
	switch {
	case !seen:
		return core.TypeText
	case isInt:
		return core.TypeInteger
	case isReal:
		return core.TypeReal
	default:
		return core.TypeText
	}
}

func coerce(value, declared string) any {
	if value == "" {
		return nil
	}
	switch declared {
	case core.TypeInteger:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case core.TypeReal:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
