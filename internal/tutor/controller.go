// Package tutor wires a tutorial session to whatever displays it. The
// Controller exposes the page's command surface (execute, set, clear, reset)
// and pushes rendered outcomes into a DisplaySink; it never returns errors
// to its callers, because every failure is a display concern.
package tutor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/sqltutor/internal/render"
	"github.com/leapstack-labs/sqltutor/internal/session"
)

// DisplaySink receives display updates from the controller. Implementations
// include the web playground (patching page regions over SSE) and test
// recorders.
type DisplaySink interface {
	// SetStatus updates the status label. The visual class for a status is
	// render.StatusClass.
	SetStatus(status session.Status)
	// ShowResult replaces the results region with a rendered fragment: a
	// results table or a success message.
	ShowResult(html string)
	// ShowError replaces the results region with an error message.
	ShowError(text string)
	// ShowNotice raises an interruptive notice without touching the results
	// region. Used for reset failures.
	ShowNotice(text string)
}

// QueryLog records queries that reached the engine. Optional.
type QueryLog interface {
	RecordQuery(ctx context.Context, query string, ok bool)
}

// Controller owns one session and the page's query buffer. All methods are
// safe for concurrent use; the controller serializes access to the session,
// which is itself single-threaded.
type Controller struct {
	mu     sync.Mutex
	sess   *session.Session
	sink   DisplaySink
	log    QueryLog
	logger *slog.Logger
	query  string
}

// Option configures a Controller.
type Option func(*Controller)

// WithQueryLog attaches a query log.
func WithQueryLog(log QueryLog) Option {
	return func(c *Controller) { c.log = log }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller for the given session and sink.
func New(sess *session.Session, sink DisplaySink, opts ...Option) *Controller {
	c := &Controller{
		sess:   sess,
		sink:   sink,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start initializes the session and pushes the resulting status to the sink.
// An initialization failure is terminal: the sink shows the recorded message
// and the controller accepts no further work beyond reporting not-ready.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sink.SetStatus(session.StatusLoading)
	if err := c.sess.Initialize(ctx); err != nil {
		c.sink.SetStatus(session.StatusError)
		c.sink.ShowError(c.sess.StatusMessage())
		return
	}
	c.sink.SetStatus(session.StatusReady)
}

// SetQuery replaces the query buffer.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = text
}

// ClearQuery empties the query buffer.
func (c *Controller) ClearQuery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
}

// Query returns the current query buffer.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// ExecuteQuery runs the buffered query and displays the outcome. Validation
// failures (not ready, empty query) are reported without reaching the
// engine; engine rejections are shown verbatim and leave the session ready.
func (c *Controller) ExecuteQuery(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.sess.Execute(ctx, c.query)
	switch {
	case errors.Is(err, session.ErrNotReady):
		c.sink.ShowError("The database is not ready yet. Try again in a moment.")
	case errors.Is(err, session.ErrEmptyQuery):
		c.sink.ShowError("Type a SQL query first.")
	case err != nil:
		c.sink.ShowError(err.Error())
		c.record(ctx, false)
	default:
		c.sink.ShowResult(render.Result(result))
		c.record(ctx, true)
	}
}

// ResetDatabase restores the seed state and displays the outcome. A failed
// reset raises a notice; the session stays usable either way.
func (c *Controller) ResetDatabase(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.sess.Reset(ctx)
	switch {
	case errors.Is(err, session.ErrNotReady):
		c.sink.ShowError("The database is not ready yet. Try again in a moment.")
	case err != nil:
		c.logger.Warn("reset failed", "error", err)
		c.sink.ShowNotice("Reset failed: " + err.Error())
	default:
		c.sink.ShowResult(render.Notice("Database has been reset to its original state."))
	}
}

// Session exposes the underlying session for status queries and schema
// introspection.
func (c *Controller) Session() *session.Session { return c.sess }

func (c *Controller) record(ctx context.Context, ok bool) {
	if c.log == nil {
		return
	}
	c.log.RecordQuery(ctx, c.query, ok)
}
