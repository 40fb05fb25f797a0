package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hurley/pkg/core"
)

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	err := renderCSV(&buf, []string{"name", "note"}, []core.Row{
		{"alice", "hello"},
		{"bob", `says "hi", loudly`},
		{nil, int64(2)},
	})
	require.NoError(t, err)

	assert.Equal(t, "name,note\n"+
		"alice,hello\n"+
		"bob,\"says \"\"hi\"\", loudly\"\n"+
		"NULL,2\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	err := renderJSON(&buf, []string{"name", "age"}, []core.Row{
		{"alice", int64(40)},
		{[]byte("bob"), nil},
	})
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "alice", out[0]["name"])
	assert.Equal(t, float64(40), out[0]["age"])
	assert.Equal(t, "bob", out[1]["name"])
	assert.Nil(t, out[1]["age"])
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := renderMarkdown(&buf, []string{"a", "b"}, []core.Row{{int64(1), "x"}})
	require.NoError(t, err)

	assert.Equal(t, "| a | b |\n| --- | --- |\n| 1 | x |\n", buf.String())

	buf.Reset()
	require.NoError(t, renderMarkdown(&buf, []string{"a"}, nil))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []string{"name"}, []core.Row{{"alice"}, {"bob"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "(2 rows)")

	buf.Reset()
	require.NoError(t, renderTable(&buf, []string{"name"}, nil))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "bytes", formatValue([]byte("bytes")))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "1.5", formatValue(1.5))
}

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, "plain", escapeCSV("plain"))
	assert.Equal(t, `"a,b"`, escapeCSV("a,b"))
	assert.Equal(t, `"a""b"`, escapeCSV(`a"b`))
	assert.Equal(t, "\"a\nb\"", escapeCSV("a\nb"))
}

func TestValuePadsShortRows(t *testing.T) {
	row := core.Row{"only"}
	assert.Equal(t, "only", value(row, 0))
	assert.Nil(t, value(row, 1))
}
