// Package lessons serves the tutorial lesson pages.
package lessons

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqltutor/internal/lesson"
	"github.com/leapstack-labs/sqltutor/internal/ui/features/common"
	"github.com/leapstack-labs/sqltutor/internal/ui/features/playground"
	"github.com/leapstack-labs/sqltutor/internal/ui/notifier"
)

// Source yields the current lesson set. The server re-reads lessons when
// watching a lessons directory, so handlers must not cache the slice.
type Source interface {
	Lessons() []lesson.Lesson
}

// Handlers provides HTTP handlers for the lesson pages.
type Handlers struct {
	source   Source
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source Source, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		source:   source,
		notifier: notify,
		isDev:    isDev,
	}
}

// HomePage redirects to the first lesson.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	all := h.source.Lessons()
	if len(all) == 0 {
		h.writePage(w, common.PageData{
			Title: "SQL Tutor",
			Body:  "<h1>SQL Tutor</h1><p>No lessons found.</p>",
		})
		return
	}
	http.Redirect(w, r, "/lessons/"+all[0].Slug, http.StatusFound)
}

// LessonPage renders one lesson with the query playground below it.
func (h *Handlers) LessonPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	all := h.source.Lessons()

	l, ok := lesson.Find(all, slug)
	if !ok {
		h.writePageStatus(w, http.StatusNotFound, common.PageData{
			Title:   "Not found",
			Lessons: all,
			Body:    "<h1>Lesson not found</h1><p>Pick a lesson from the sidebar.</p>",
		})
		return
	}

	var body strings.Builder
	body.WriteString(`<article class="lesson-body">`)
	body.WriteString(l.HTML)
	body.WriteString("</article>\n")
	body.WriteString(playground.Widget(l.StarterSQL))

	h.writePage(w, common.PageData{
		Title:      l.Title,
		ActiveSlug: l.Slug,
		Lessons:    all,
		Body:       body.String(),
	})
}

// UpdatesSSE blocks until the lesson set changes, then reloads the page.
func (h *Handlers) UpdatesSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(ch)

	select {
	case <-ch:
		_ = sse.ExecuteScript("window.location.reload()")
	case <-r.Context().Done():
	}
}

func (h *Handlers) writePage(w http.ResponseWriter, data common.PageData) {
	h.writePageStatus(w, http.StatusOK, data)
}

func (h *Handlers) writePageStatus(w http.ResponseWriter, status int, data common.PageData) {
	data.IsDev = h.isDev
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(common.Page(data)))
}
