// Package router sets up HTTP routes for the tutorial server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	lessonsFeature "github.com/leapstack-labs/sqltutor/internal/ui/features/lessons"
	"github.com/leapstack-labs/sqltutor/internal/ui/features/playground"
	"github.com/leapstack-labs/sqltutor/internal/ui/notifier"
	"github.com/leapstack-labs/sqltutor/internal/ui/resources"
)

// SetupRoutes configures all routes for the tutorial server.
func SetupRoutes(
	router chi.Router,
	lessonSource lessonsFeature.Source,
	manager *playground.Manager,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := lessonsFeature.SetupRoutes(router, lessonSource, notify, isDev); err != nil {
		return err
	}

	if err := playground.SetupRoutes(router, manager, sessionStore, logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
