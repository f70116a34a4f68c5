package lessons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltutor/internal/lesson"
	"github.com/leapstack-labs/sqltutor/internal/ui/notifier"
)

type staticSource struct {
	lessons []lesson.Lesson
}

func (s *staticSource) Lessons() []lesson.Lesson { return s.lessons }

func setupTestHandlers(t *testing.T) (*Handlers, *notifier.Notifier) {
	t.Helper()

	bundled, err := lesson.LoadBundled()
	require.NoError(t, err)

	n := notifier.New()
	return NewHandlers(&staticSource{lessons: bundled}, n, false), n
}

func requestWithSlug(r *http.Request, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHomePage_RedirectsToFirstLesson(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HomePage(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/lessons/selecting-data", rec.Header().Get("Location"))
}

func TestHomePage_NoLessons(t *testing.T) {
	h := NewHandlers(&staticSource{}, notifier.New(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No lessons found")
}

func TestLessonPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/lessons/selecting-data", nil)
	req = requestWithSlug(req, "selecting-data")
	rec := httptest.NewRecorder()

	h.LessonPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "lesson-body")
	// Sidebar lists every lesson; current one is highlighted
	assert.Contains(t, body, `href="/lessons/filtering-sorting"`)
	assert.Contains(t, body, `class="active"`)
	// Playground widget with its SSE endpoints is embedded
	assert.Contains(t, body, "/api/playground/execute")
	assert.Contains(t, body, "/api/playground/reset")
	assert.Contains(t, body, `id="query-output"`)
	assert.Contains(t, body, `id="db-status"`)
}

func TestLessonPage_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/lessons/nope", nil)
	req = requestWithSlug(req, "nope")
	rec := httptest.NewRecorder()

	h.LessonPage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lesson not found")
}

func TestUpdatesSSE_ReloadsOnBroadcast(t *testing.T) {
	h, n := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.UpdatesSSE(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	n.Broadcast()
	<-done

	assert.Contains(t, rec.Body.String(), "window.location.reload()")
}

func TestUpdatesSSE_SilentWithoutBroadcast(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.UpdatesSSE(rec, req)

	eventCount := strings.Count(rec.Body.String(), "event:")
	assert.Equal(t, 0, eventCount, "should have no SSE events without broadcast")
}
