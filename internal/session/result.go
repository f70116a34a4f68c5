package session

import "fmt"

// Result is the outcome of a successfully executed statement.
//
// A statement that produces a result set (SELECT and friends) has
// HasResultSet true, a defined column list, and zero or more rows. A
// statement that only mutates schema or rows has HasResultSet false and
// carries the affected row count. The two are distinct outcomes: a SELECT
// matching nothing is an empty result set, not a mutation success.
type Result struct {
	Columns      []string
	Rows         [][]string
	HasResultSet bool
	RowsAffected int64
}

// RowCount returns the number of rows in the result set.
func (r *Result) RowCount() int { return len(r.Rows) }

// formatValue stringifies a scanned column value for display.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
