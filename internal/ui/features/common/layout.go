// Package common provides the shared page layout for the tutorial site.
package common

import (
	"html"
	"strings"

	"github.com/leapstack-labs/sqltutor/internal/lesson"
	"github.com/leapstack-labs/sqltutor/internal/ui/resources"
)

const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// PageData holds everything the layout needs to render one page.
type PageData struct {
	Title      string
	ActiveSlug string
	Lessons    []lesson.Lesson
	Body       string // trusted HTML, already escaped where needed
	IsDev      bool
}

// Page renders the full HTML document for a tutorial page.
func Page(data PageData) string {
	var b strings.Builder

	b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(data.Title))
	b.WriteString(" - SQL Tutor</title>\n")
	b.WriteString(`<link rel="stylesheet" href="` + resources.StaticPath("app.css") + `">` + "\n")
	b.WriteString(`<script type="module" src="` + datastarCDN + `"></script>` + "\n")
	b.WriteString("</head>\n<body>\n")

	b.WriteString(`<div class="layout">` + "\n")
	b.WriteString(sidebar(data))
	b.WriteString(`<main class="content">` + "\n")
	b.WriteString(data.Body)
	b.WriteString("\n</main>\n</div>\n")

	if data.IsDev {
		// Reconnect-driven page reload during development, plus lesson
		// file change notifications.
		b.WriteString(`<div data-on-load="@get('/reload')"></div>` + "\n")
		b.WriteString(`<div data-on-load="@get('/updates')"></div>` + "\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func sidebar(data PageData) string {
	var b strings.Builder

	b.WriteString(`<aside class="sidebar">` + "\n")
	b.WriteString("<h1><a href=\"/\">SQL Tutor</a></h1>\n<nav>\n")
	for _, l := range data.Lessons {
		class := ""
		if l.Slug == data.ActiveSlug {
			class = ` class="active"`
		}
		b.WriteString(`<a href="/lessons/` + html.EscapeString(l.Slug) + `"` + class + ">")
		b.WriteString(html.EscapeString(l.Title))
		b.WriteString("</a>\n")
	}
	b.WriteString("</nav>\n</aside>\n")
	return b.String()
}
