// Package memtable provides a safe adapter serving named in-memory
// datasets under mem:// table identifiers. It backs demos and tests
// without touching any external resource.
package memtable

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/hurley/pkg/adapter"
	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

// Name is the registered adapter name.
const Name = "memtable"

const scheme = "mem://"

func init() {
	adapter.Register(adapter.Registration{
		Name:     Name,
		Safe:     true,
		Supports: Supports,
		Load: func() (adapter.Factory, error) {
			return New, nil
		},
	})
}

// Dataset is one named in-memory table.
type Dataset struct {
	Columns []core.Column
	Rows    []core.Row
}

// Supports reports whether the table identifier is a mem:// reference.
func Supports(table string) bool {
	return strings.HasPrefix(table, scheme)
}

// New instantiates the adapter for one table identifier.
func New(ctx context.Context, table string, args map[string]any) (adapter.Adapter, error) {
	name := strings.TrimPrefix(table, scheme)
	dataset, ok := lookup(args, name)
	if !ok {
		return nil, fmt.Errorf("no dataset registered for %s", table)
	}
	return &tableAdapter{dataset: dataset}, nil
}

// lookup finds a dataset in the adapter args. Datasets are passed
// programmatically under the "datasets" key:
//
//	AdapterArgs: map[string]map[string]any{
//		memtable.Name: {"datasets": map[string]memtable.Dataset{...}},
//	}
func lookup(args map[string]any, name string) (Dataset, bool) {
	datasets, ok := args["datasets"].(map[string]Dataset)
	if !ok {
		return Dataset{}, false
	}
	d, ok := datasets[name]
	return d, ok
}

type tableAdapter struct {
	dataset Dataset
}

func (t *tableAdapter) Columns(ctx context.Context) ([]core.Column, error) {
	return t.dataset.Columns, nil
}

func (t *tableAdapter) Rows(ctx context.Context) (engine.RowIter, error) {
	return adapter.NewSliceIter(t.dataset.Rows), nil
}

func (t *tableAdapter) Close() error { return nil }
