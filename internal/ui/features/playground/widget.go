package playground

import (
	"encoding/json"
	"strings"
)

// Widget renders the query box embedded under each lesson. starterSQL
// pre-fills the editor; the buttons drive the SSE endpoints.
func Widget(starterSQL string) string {
	signals, _ := json.Marshal(map[string]string{"sql": starterSQL})

	var b strings.Builder
	b.WriteString(`<section class="playground" data-signals='` + escapeAttr(string(signals)) + `'>` + "\n")
	b.WriteString("<h2>Try it yourself</h2>\n")
	b.WriteString(`<textarea data-bind-sql spellcheck="false" placeholder="SELECT * FROM students;"></textarea>` + "\n")
	b.WriteString(`<div class="controls">` + "\n")
	b.WriteString(`<button data-on-click="@post('/api/playground/execute')">Run query</button>` + "\n")
	b.WriteString(`<button class="secondary" data-on-click="@post('/api/playground/clear')">Clear</button>` + "\n")
	b.WriteString(`<button class="secondary" data-on-click="@post('/api/playground/reset')">Reset database</button>` + "\n")
	b.WriteString(`<button class="secondary" data-on-click="@get('/api/playground/tables')">Tables</button>` + "\n")
	b.WriteString(`<span id="db-status" class="status" data-on-load="@get('/api/playground/status')">Loading database...</span>` + "\n")
	b.WriteString("</div>\n")
	b.WriteString(`<div id="notice"></div>` + "\n")
	b.WriteString(`<div id="query-output"></div>` + "\n")
	b.WriteString("</section>\n")
	return b.String()
}

// escapeAttr makes a JSON blob safe inside a single-quoted HTML attribute.
func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return s
}
