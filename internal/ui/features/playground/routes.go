package playground

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

// SetupRoutes registers the playground API routes.
func SetupRoutes(router chi.Router, manager *Manager, sessionStore sessions.Store, logger *slog.Logger) error {
	handlers := NewHandlers(manager, sessionStore, logger)

	router.Route("/api/playground", func(r chi.Router) {
		r.Get("/status", handlers.StatusSSE)
		r.Get("/tables", handlers.TablesSSE)
		r.Get("/schema/{name}", handlers.SchemaSSE)
		r.Post("/execute", handlers.ExecuteSSE)
		r.Post("/clear", handlers.ClearSSE)
		r.Post("/reset", handlers.ResetSSE)
	})

	return nil
}
