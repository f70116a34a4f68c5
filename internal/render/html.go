// Package render maps query outcomes to display payloads. All rendering is
// pure string building; every user-influenced value is escaped so that row
// contents can never be interpreted as markup.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/leapstack-labs/sqltutor/internal/session"
)

// StatusClass maps a session status to the CSS class applied to the status
// label. Only ready and error carry a class.
func StatusClass(status session.Status) string {
	switch status {
	case session.StatusReady:
		return "ready"
	case session.StatusError:
		return "error"
	default:
		return ""
	}
}

// StatusLabel is the user-visible text for a status.
func StatusLabel(status session.Status) string {
	switch status {
	case session.StatusLoading:
		return "Loading database..."
	case session.StatusReady:
		return "Database ready"
	case session.StatusError:
		return "Database failed to load"
	default:
		return string(status)
	}
}

// Result renders an execute outcome as an HTML fragment: a results table for
// statements that produced a result set, a success line for mutations.
func Result(result *session.Result) string {
	if !result.HasResultSet {
		return successHTML(result.RowsAffected)
	}
	return tableHTML(result)
}

// Error renders an error message fragment. The message is escaped verbatim.
func Error(msg string) string {
	return fmt.Sprintf(`<p class="query-error">%s</p>`, html.EscapeString(msg))
}

// Notice renders an interruptive notice fragment, used for reset failures.
func Notice(msg string) string {
	return fmt.Sprintf(`<p class="query-notice">%s</p>`, html.EscapeString(msg))
}

func successHTML(affected int64) string {
	return fmt.Sprintf(`<p class="query-success">OK, %s affected</p>`, rowWord(affected))
}

func tableHTML(result *session.Result) string {
	var b strings.Builder

	b.WriteString(`<table class="query-results"><thead><tr>`)
	for _, col := range result.Columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	for _, row := range result.Rows {
		b.WriteString("<tr>")
		for _, val := range row {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(val))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	fmt.Fprintf(&b, `<p class="query-count">%s</p>`, rowWord(int64(result.RowCount())))
	return b.String()
}

// rowWord formats a row count with singular/plural agreement.
func rowWord(n int64) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}
