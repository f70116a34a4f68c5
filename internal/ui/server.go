// Package ui provides the web server for the SQL tutorial site.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqltutor/internal/history"
	"github.com/leapstack-labs/sqltutor/internal/lesson"
	"github.com/leapstack-labs/sqltutor/internal/tutor"
	"github.com/leapstack-labs/sqltutor/internal/ui/features/playground"
	"github.com/leapstack-labs/sqltutor/internal/ui/notifier"
	"github.com/leapstack-labs/sqltutor/internal/ui/router"
)

// Server hosts the tutorial site: lesson pages plus per-visitor sandboxes.
type Server struct {
	mu         sync.RWMutex
	lessons    []lesson.Lesson
	lessonsDir string

	history      *history.Store
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	sandboxes    *playground.Manager
}

// Config holds configuration for the tutorial server.
type Config struct {
	Lessons       []lesson.Lesson
	LessonsDir    string // non-empty when serving lessons from disk
	History       *history.Store
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new tutorial server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	var queryLog tutor.QueryLog
	if cfg.History != nil {
		queryLog = cfg.History
	}

	return &Server{
		lessons:      cfg.Lessons,
		lessonsDir:   cfg.LessonsDir,
		history:      cfg.History,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch && cfg.LessonsDir != "",
		logger:       logger,
		notifier:     notifier.New(),
		sandboxes:    playground.NewManager(queryLog, logger),
	}
}

// Lessons returns the current lesson set.
func (s *Server) Lessons() []lesson.Lesson {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lessons
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting tutorial server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s, s.sandboxes, s.sessionStore, s.notifier, s.logger, s.IsDev()); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Expire idle sandboxes
	eg.Go(func() error {
		s.sandboxes.Sweep(egctx)
		return nil
	})

	// Start lessons watcher if enabled
	if s.watch {
		eg.Go(func() error {
			return s.watchLessons(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down tutorial server...")
		s.sandboxes.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether dev-mode endpoints (hot reload) are enabled. Watching
// a lessons directory implies development.
func (s *Server) IsDev() bool {
	return s.watch
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchLessons reloads the lesson set when files under the lessons directory
// change, then pings connected pages to refresh.
func (s *Server) watchLessons(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.lessonsDir); err != nil {
		s.logger.Error("failed to watch lessons directory", "error", err)
		// Don't fail the server, continue without watching
		<-ctx.Done()
		return nil
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".html" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("lesson changed, reloading", "file", event.Name)
				s.reloadLessons()
				s.notifier.Broadcast()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func (s *Server) reloadLessons() {
	lessons, err := lesson.LoadDir(s.lessonsDir)
	if err != nil {
		s.logger.Error("failed to reload lessons", "error", err)
		return
	}

	s.mu.Lock()
	s.lessons = lessons
	s.mu.Unlock()
}
