package tutor

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltutor/internal/session"
)

// recordingSink captures everything the controller pushes at it.
type recordingSink struct {
	statuses []session.Status
	results  []string
	errors   []string
	notices  []string
}

func (s *recordingSink) SetStatus(status session.Status) { s.statuses = append(s.statuses, status) }
func (s *recordingSink) ShowResult(html string)          { s.results = append(s.results, html) }
func (s *recordingSink) ShowError(text string)           { s.errors = append(s.errors, text) }
func (s *recordingSink) ShowNotice(text string)          { s.notices = append(s.notices, text) }

type recordingLog struct {
	queries []string
	oks     []bool
}

func (l *recordingLog) RecordQuery(_ context.Context, query string, ok bool) {
	l.queries = append(l.queries, query)
	l.oks = append(l.oks, ok)
}

func newStartedController(t *testing.T, opts ...Option) (*Controller, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	sess := session.New()
	t.Cleanup(func() { _ = sess.Close() })

	c := New(sess, sink, opts...)
	c.Start(context.Background())
	require.Equal(t, []session.Status{session.StatusLoading, session.StatusReady}, sink.statuses)
	return c, sink
}

func TestStartReportsStatusTransitions(t *testing.T) {
	_, sink := newStartedController(t)
	assert.Empty(t, sink.errors)
}

func TestStartFailureIsTerminal(t *testing.T) {
	sink := &recordingSink{}
	sess := session.New(session.WithOpener(func() (*sql.DB, error) {
		return nil, errors.New("engine failed to load")
	}))
	c := New(sess, sink)

	c.Start(context.Background())
	assert.Equal(t, []session.Status{session.StatusLoading, session.StatusError}, sink.statuses)
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "engine failed to load")

	// Further work is refused without reaching any engine.
	c.SetQuery("SELECT 1")
	c.ExecuteQuery(context.Background())
	require.Len(t, sink.errors, 2)
	assert.Contains(t, sink.errors[1], "not ready")
}

func TestExecuteQueryRendersResult(t *testing.T) {
	c, sink := newStartedController(t)

	c.SetQuery("SELECT name FROM students WHERE grade > 90 ORDER BY grade DESC")
	c.ExecuteQuery(context.Background())

	require.Len(t, sink.results, 1)
	assert.Contains(t, sink.results[0], "Henry Moore")
	assert.Contains(t, sink.results[0], "2 rows")
	assert.Empty(t, sink.errors)
}

func TestExecuteQueryEmptyBuffer(t *testing.T) {
	c, sink := newStartedController(t)

	c.ExecuteQuery(context.Background())
	require.Len(t, sink.errors, 1)
	assert.Contains(t, sink.errors[0], "Type a SQL query")
	assert.Empty(t, sink.results)
}

func TestClearQueryEmptiesBuffer(t *testing.T) {
	c, _ := newStartedController(t)
	c.SetQuery("SELECT 1")
	c.ClearQuery()
	assert.Empty(t, c.Query())
}

func TestExecuteQueryShowsEngineErrorVerbatim(t *testing.T) {
	c, sink := newStartedController(t)

	c.SetQuery("SELEKT * FROM students")
	c.ExecuteQuery(context.Background())

	require.Len(t, sink.errors, 1)
	assert.NotEmpty(t, sink.errors[0])
	assert.Equal(t, session.StatusReady, c.Session().Status())

	// The user can immediately try another query.
	c.SetQuery("SELECT 1")
	c.ExecuteQuery(context.Background())
	assert.Len(t, sink.results, 1)
}

func TestResetDatabaseRestoresSeed(t *testing.T) {
	c, sink := newStartedController(t)

	c.SetQuery("DELETE FROM students")
	c.ExecuteQuery(context.Background())

	c.ResetDatabase(context.Background())
	require.NotEmpty(t, sink.results)
	assert.Contains(t, sink.results[len(sink.results)-1], "reset")

	c.SetQuery("SELECT COUNT(*) FROM students")
	c.ExecuteQuery(context.Background())
	assert.Contains(t, sink.results[len(sink.results)-1], "8")
}

func TestQueryLogRecordsEngineReachedExecutions(t *testing.T) {
	log := &recordingLog{}
	c, _ := newStartedController(t, WithQueryLog(log))

	// Validation failure: never reaches the engine, never logged.
	c.ExecuteQuery(context.Background())
	assert.Empty(t, log.queries)

	c.SetQuery("SELECT 1")
	c.ExecuteQuery(context.Background())

	c.SetQuery("SELEKT 1")
	c.ExecuteQuery(context.Background())

	require.Equal(t, []string{"SELECT 1", "SELEKT 1"}, log.queries)
	assert.Equal(t, []bool{true, false}, log.oks)
}
