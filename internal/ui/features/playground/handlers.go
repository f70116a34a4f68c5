package playground

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqltutor/internal/render"
	"github.com/leapstack-labs/sqltutor/internal/tutor"
)

const (
	cookieName   = "sqltutor"
	queryTimeout = 30 * time.Second
)

// QuerySignals represents the signals sent from the frontend.
type QuerySignals struct {
	SQL string `json:"sql"`
}

// Handlers provides HTTP handlers for the playground feature.
type Handlers struct {
	manager      *Manager
	sessionStore sessions.Store
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(manager *Manager, sessionStore sessions.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		manager:      manager,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// sandbox resolves the visitor's sandbox from the cookie session, minting a
// new sandbox ID on first visit.
func (h *Handlers) sandbox(w http.ResponseWriter, r *http.Request) *Sandbox {
	cs, _ := h.sessionStore.Get(r, cookieName)

	id, ok := cs.Values["sandbox_id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
		cs.Values["sandbox_id"] = id
		if err := cs.Save(r, w); err != nil {
			h.logger.Warn("failed to save session cookie", "error", err)
		}
	}

	return h.manager.Acquire(id)
}

// StatusSSE initializes the visitor's sandbox and streams the status label.
// Called on page load so the database is warm before the first query.
func (h *Handlers) StatusSSE(w http.ResponseWriter, r *http.Request) {
	sb := h.sandbox(w, r)
	sse := datastar.NewSSE(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sb.With(newSSESink(sse), func(ctl *tutor.Controller) {
		ctl.Start(ctx)
	})
}

// ExecuteSSE runs the submitted query and patches the results region.
func (h *Handlers) ExecuteSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals QuerySignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		newSSESink(sse).ShowError("Failed to read request: " + err.Error())
		return
	}

	sb := h.sandbox(w, r)
	sse := datastar.NewSSE(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sb.With(newSSESink(sse), func(ctl *tutor.Controller) {
		ctl.Start(ctx)
		ctl.SetQuery(signals.SQL)
		ctl.ExecuteQuery(ctx)
	})
}

// ResetSSE restores the visitor's database to its seeded state.
func (h *Handlers) ResetSSE(w http.ResponseWriter, r *http.Request) {
	sb := h.sandbox(w, r)
	sse := datastar.NewSSE(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sb.With(newSSESink(sse), func(ctl *tutor.Controller) {
		ctl.Start(ctx)
		ctl.ResetDatabase(ctx)
	})
}

// TablesSSE patches the results region with the sandbox's table list.
func (h *Handlers) TablesSSE(w http.ResponseWriter, r *http.Request) {
	h.introspect(w, r, `
		SELECT name, type
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`)
}

// SchemaSSE patches the results region with one table's column layout.
func (h *Handlers) SchemaSSE(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !identPattern.MatchString(name) {
		sse := datastar.NewSSE(w, r)
		newSSESink(sse).ShowError("no such table: " + name)
		return
	}
	// PRAGMA takes no bind parameters; the name is validated above.
	h.introspect(w, r, fmt.Sprintf("PRAGMA table_info(%q)", name))
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (h *Handlers) introspect(w http.ResponseWriter, r *http.Request, query string) {
	sb := h.sandbox(w, r)
	sse := datastar.NewSSE(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	sink := newSSESink(sse)
	sb.With(sink, func(ctl *tutor.Controller) {
		ctl.Start(ctx)

		res, err := ctl.Session().Execute(ctx, query)
		if err != nil {
			sink.ShowError(err.Error())
			return
		}
		sink.ShowResult(render.Result(res))
	})
}

// ClearSSE empties the query buffer and the results region.
func (h *Handlers) ClearSSE(w http.ResponseWriter, r *http.Request) {
	sb := h.sandbox(w, r)
	sse := datastar.NewSSE(w, r)

	sb.With(newSSESink(sse), func(ctl *tutor.Controller) {
		ctl.ClearQuery()
	})

	_ = sse.PatchSignals([]byte(`{"sql": ""}`))
	_ = sse.PatchElements(`<div id="query-output"></div>`)
}
