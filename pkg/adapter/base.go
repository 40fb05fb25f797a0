package adapter

import (
	"fmt"
	"io"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// SliceIter is a RowIter over an in-memory row slice. Adapters whose
// data is already materialized can return one from Rows.
type SliceIter struct {
	rows []core.Row
	pos  int
}

// NewSliceIter returns an iterator over rows.
func NewSliceIter(rows []core.Row) *SliceIter {
	return &SliceIter{rows: rows}
}

// Next implements engine.RowIter.
func (s *SliceIter) Next() (core.Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// Close implements engine.RowIter.
func (s *SliceIter) Close() error { return nil }

var _ engine.RowIter = (*SliceIter)(nil)

// DecodeArgs decodes the loosely-typed adapter args map into a typed
// config struct, using `mapstructure` field tags.
func DecodeArgs(args map[string]any, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("decoding adapter args: %w", err)
	}
	return nil
}
