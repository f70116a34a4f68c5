package lessons

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/sqltutor/internal/ui/notifier"
)

// SetupRoutes registers the lesson page routes.
func SetupRoutes(router chi.Router, source Source, notify *notifier.Notifier, isDev bool) error {
	handlers := NewHandlers(source, notify, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/lessons/{slug}", handlers.LessonPage)
	router.Get("/updates", handlers.UpdatesSSE)

	return nil
}
