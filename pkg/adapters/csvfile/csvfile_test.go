package csvfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/engine"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fetchAll(t *testing.T, iter engine.RowIter) []core.Row {
	t.Helper()
	var rows []core.Row
	for {
		row, err := iter.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports("csv:///data/test.csv"))
	assert.False(t, Supports("mem://people"))
}

func TestNew(t *testing.T) {
	path := writeCSV(t, "name,age,score\nalice,40,1.5\nbob,30,2.0\n")

	ctx := context.Background()
	a, err := New(ctx, "csv://"+path, nil)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	columns, err := a.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Column{
		{Name: "name", Type: core.TypeText, Nullable: true},
		{Name: "age", Type: core.TypeInteger, Nullable: true},
		{Name: "score", Type: core.TypeReal, Nullable: true},
	}, columns)

	iter, err := a.Rows(ctx)
	require.NoError(t, err)
	defer func() { _ = iter.Close() }()

	assert.Equal(t, []core.Row{
		{"alice", int64(40), 1.5},
		{"bob", int64(30), 2.0},
	}, fetchAll(t, iter))
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(context.Background(), "csv:///nope/missing.csv", nil)
	require.Error(t, err)
}

func TestCustomComma(t *testing.T) {
	path := writeCSV(t, "a;b\n1;2\n")

	ctx := context.Background()
	a, err := New(ctx, "csv://"+path, map[string]any{"comma": ";"})
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	columns, err := a.Columns(ctx)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "a", columns[0].Name)
	assert.Equal(t, core.TypeInteger, columns[0].Type)
}

func TestRootConfinesPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.csv"), []byte("a\n1\n"), 0o600))

	ctx := context.Background()
	args := map[string]any{"root": root}

	a, err := New(ctx, "csv://data.csv", args)
	require.NoError(t, err)
	_ = a.Close()

	// Traversal outside the root resolves back into it.
	_, err = New(ctx, "csv://../../etc/passwd", args)
	require.Error(t, err)
}

func TestInferType(t *testing.T) {
	records := [][]string{
		{"1", "1.5", "x", "", "1"},
		{"2", "2", "2", "", ""},
		{"", "3.0", "y", "", "z"},
	}

	assert.Equal(t, core.TypeInteger, inferType(0, records))
	assert.Equal(t, core.TypeReal, inferType(1, records))
	assert.Equal(t, core.TypeText, inferType(2, records))
	// A column with no values at all defaults to TEXT.
	assert.Equal(t, core.TypeText, inferType(3, records))
	assert.Equal(t, core.TypeText, inferType(4, records))
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, int64(1), coerce("1", core.TypeInteger))
	assert.Equal(t, 1.5, coerce("1.5", core.TypeReal))
	assert.Equal(t, "x", coerce("x", core.TypeText))
	assert.Nil(t, coerce("", core.TypeInteger))
	// A value that fails its declared type falls back to text.
	assert.Equal(t, "x", coerce("x", core.TypeInteger))
}

func TestEmptyValuesBecomeNil(t *testing.T) {
	path := writeCSV(t, "a,b\n1,\n,2\n")

	ctx := context.Background()
	a, err := New(ctx, "csv://"+path, nil)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	iter, err := a.Rows(ctx)
	require.NoError(t, err)
	defer func() { _ = iter.Close() }()

	assert.Equal(t, []core.Row{
		{int64(1), nil},
		{nil, int64(2)},
	}, fetchAll(t, iter))
}
