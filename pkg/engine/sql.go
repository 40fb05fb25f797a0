package engine

import (
	"regexp"
	"strings"
)

// QuoteIdentifier double-quotes an identifier, escaping embedded quotes.
// Adapter-backed table names are URI-like and always need quoting.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateVirtualTableSQL renders the virtual-table creation statement for
// a table identifier and a registered module name.
func CreateVirtualTableSQL(table, module string) string {
	return "CREATE VIRTUAL TABLE " + QuoteIdentifier(table) + " USING " + module + "()"
}

var createVTabRe = regexp.MustCompile(
	`(?is)^\s*CREATE\s+VIRTUAL\s+TABLE\s+"((?:[^"]|"")+)"\s+USING\s+([A-Za-z_][A-Za-z0-9_]*)\s*(?:\(\s*\))?\s*;?\s*$`)

// ParseCreateVirtualTable recognizes statements produced by
// CreateVirtualTableSQL and returns the table identifier and module
// name. ok is false for any other statement.
func ParseCreateVirtualTable(sql string) (table, module string, ok bool) {
	m := createVTabRe.FindStringSubmatch(sql)
	if m == nil {
		return "", "", false
	}
	return strings.ReplaceAll(m[1], `""`, `"`), m[2], true
}

// resultKeywords are the statement heads that produce a result set.
var resultKeywords = map[string]bool{
	"SELECT":  true,
	"VALUES":  true,
	"WITH":    true,
	"PRAGMA":  true,
	"EXPLAIN": true,
}

// HasResultSet reports whether a statement is expected to produce rows.
// Engines use it to pick between the query and exec paths of their
// drivers; it looks only at the leading keyword.
func HasResultSet(sql string) bool {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return false
	}
	return resultKeywords[strings.ToUpper(fields[0])]
}
