// Package session implements the tutorial database session: one in-memory
// SQLite database seeded with fixed sample tables, against which arbitrary
// user SQL is executed verbatim.
//
// The sandbox is intentionally unprotected: destructive statements execute
// with full effect. Nothing outside the in-memory database is reachable, so
// the worst a learner can do is reset their own sandbox.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	// sqlite driver for the in-memory sandbox database.
	_ "modernc.org/sqlite"
)

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusLoading is the initial state, before Initialize completes.
	StatusLoading Status = "loading"
	// StatusReady means the sandbox is seeded and accepting queries.
	StatusReady Status = "ready"
	// StatusError means initialization failed. Terminal.
	StatusError Status = "error"
)

// Opener produces the database handle for a session. The default opener
// creates an in-memory SQLite database; tests substitute their own.
type Opener func() (*sql.DB, error)

func defaultOpener() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// An in-memory sqlite database lives inside a single connection; a
	// second pooled connection would see a different, empty database.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Session owns a single in-memory database handle and its status. Methods
// are not safe for concurrent use; callers that share a session across
// goroutines must serialize access.
type Session struct {
	db        *sql.DB
	status    Status
	statusMsg string
	initErr   *InitError
	logger    *slog.Logger
	opener    Opener
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithOpener overrides how the database handle is acquired.
func WithOpener(open Opener) Option {
	return func(s *Session) { s.opener = open }
}

// New creates a session in the loading state. Call Initialize before use.
func New(opts ...Option) *Session {
	s := &Session{
		status: StatusLoading,
		logger: slog.New(slog.DiscardHandler),
		opener: defaultOpener,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// StatusMessage returns the human-readable message recorded for the current
// status. Empty unless status is StatusError.
func (s *Session) StatusMessage() string { return s.statusMsg }

// DB exposes the underlying handle for schema introspection. Nil until
// Initialize succeeds.
func (s *Session) DB() *sql.DB { return s.db }

// Initialize acquires the database handle, creates the sample tables, and
// inserts the seed rows. On success the status becomes ready. On failure the
// status becomes error, the message is recorded, and the same failure is
// returned; errors never propagate past this boundary as panics.
//
// Initialize is a no-op after the first call: a ready session returns nil,
// a failed one returns the recorded error.
func (s *Session) Initialize(ctx context.Context) error {
	switch s.status {
	case StatusReady:
		return nil
	case StatusError:
		return s.initErr
	}

	db, err := s.opener()
	if err != nil {
		return s.fail(&InitError{Stage: StageOpen, Err: err})
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return s.fail(&InitError{Stage: StageOpen, Err: err})
	}

	if err := createAndSeed(ctx, db); err != nil {
		_ = db.Close()
		stage := StageSchema
		var sf *seedFailure
		if errors.As(err, &sf) {
			stage = StageSeed
		}
		return s.fail(&InitError{Stage: stage, Err: err})
	}

	s.db = db
	s.status = StatusReady
	s.statusMsg = ""
	s.logger.Debug("session initialized",
		"students", len(studentSeeds), "courses", len(courseSeeds))
	return nil
}

func (s *Session) fail(err *InitError) error {
	s.status = StatusError
	s.statusMsg = err.Error()
	s.initErr = err
	s.logger.Error("session initialization failed", "stage", err.Stage, "error", err.Err)
	return err
}

// Execute runs a user-typed SQL string against the sandbox.
//
// Preconditions are checked before the engine is reached: a session that is
// not ready returns ErrNotReady, a blank query returns ErrEmptyQuery, and in
// both cases the database is untouched. Engine rejections come back as a
// QueryError carrying the engine's message verbatim; they do not change the
// session status. The query is never retried, sanitized, or rewritten.
func (s *Session) Execute(ctx context.Context, query string) (*Result, error) {
	if s.status != StatusReady {
		return nil, ErrNotReady
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if isResultSetQuery(query) {
		return s.executeQuery(ctx, query)
	}
	return s.executeStatement(ctx, query)
}

func (s *Session) executeQuery(ctx context.Context, query string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	result := &Result{Columns: cols, HasResultSet: true}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, &QueryError{Query: query, Err: err}
		}

		row := make([]string, len(cols))
		for i, val := range values {
			row[i] = formatValue(val)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}

	return result, nil
}

func (s *Session) executeStatement(ctx context.Context, query string) (*Result, error) {
	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return &Result{RowsAffected: affected}, nil
}

// Reset drops the two sample tables if present, then recreates and reseeds
// them exactly as Initialize does. Reset after reset reproduces the
// identical seed state. A failure partway is reported as a ResetError but
// leaves the status ready: the session still has a usable, if inconsistent,
// database.
func (s *Session) Reset(ctx context.Context) error {
	if s.status != StatusReady {
		return ErrNotReady
	}

	for _, table := range []string{"students", "courses"} {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return &ResetError{Err: err}
		}
	}

	if err := createAndSeed(ctx, s.db); err != nil {
		return &ResetError{Err: err}
	}

	s.logger.Debug("session reset")
	return nil
}

// Close releases the database handle. The session is unusable afterwards.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// isResultSetQuery reports whether the statement produces a result set.
// SELECT-like statements go through the query path so that an empty result
// set keeps its column list; everything else goes through the exec path and
// reports rows affected. Leading comments are skipped so that a
// comment-prefixed SELECT still classifies by its first real keyword.
func isResultSetQuery(query string) bool {
	fields := strings.Fields(strings.ToLower(stripLeadingComments(query)))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "select", "with", "values", "pragma", "explain":
		return true
	}
	return false
}

// stripLeadingComments removes line (--) and block (/* */) comments from
// the front of a statement. The statement itself is still sent to the
// engine verbatim; this only affects classification.
func stripLeadingComments(query string) string {
	for {
		q := strings.TrimSpace(query)
		switch {
		case strings.HasPrefix(q, "--"):
			nl := strings.IndexByte(q, '\n')
			if nl < 0 {
				return ""
			}
			query = q[nl+1:]
		case strings.HasPrefix(q, "/*"):
			end := strings.Index(q, "*/")
			if end < 0 {
				return ""
			}
			query = q[end+2:]
		default:
			return q
		}
	}
}
