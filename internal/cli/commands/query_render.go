package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/hurley/pkg/core"
	"github.com/leapstack-labs/hurley/pkg/db"
)

// renderCursor renders the result of the cursor's last statement.
func renderCursor(w io.Writer, cursor *db.Cursor, format string) error {
	description := cursor.Description()
	if description == nil {
		_, _ = fmt.Fprintf(w, "(%d rows affected)\n", cursor.RowCount())
		return nil
	}

	rows, err := cursor.Fetchall()
	if err != nil {
		return err
	}
	cols := make([]string, len(description))
	for i, col := range description {
		cols[i] = col.Name
	}

	switch format {
	case "json":
		return renderJSON(w, cols, rows)
	case "csv":
		return renderCSV(w, cols, rows)
	case "md", "markdown":
		return renderMarkdown(w, cols, rows)
	default:
		return renderTable(w, cols, rows)
	}
}

func renderTable(w io.Writer, cols []string, rows []core.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		out := make(table.Row, len(cols))
		for i := range cols {
			out[i] = formatValue(value(row, i))
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, cols []string, rows []core.Row) error {
	results := make([]map[string]any, len(rows))
	for i, row := range rows {
		result := make(map[string]any, len(cols))
		for j, col := range cols {
			v := value(row, j)
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			result[col] = v
		}
		results[i] = result
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderCSV(w io.Writer, cols []string, rows []core.Row) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, row := range rows {
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = escapeCSV(formatValue(value(row, i)))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, rows []core.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rows {
		values := make([]string, len(cols))
		for i := range cols {
			values[i] = formatValue(value(row, i))
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func value(row core.Row, i int) any {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
