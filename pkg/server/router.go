package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/core"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(client *core.Client, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := NewHandler(client)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions", h.ListSessions)

		r.Post("/upload", h.Upload)
		r.Get("/upload", h.Asset)

		r.Post("/analyze", h.Analyze)
		r.Post("/cluster", h.Cluster)
		r.Post("/generate-layout", h.GenerateLayout)

		r.Post("/build-scene", h.BuildScene)
		r.Get("/build-scene", h.Scene)

		r.Get("/category-scene", h.CategoryScene)

		r.Post("/entries", h.ArchiveEntry)
		r.Get("/entries", h.ListEntries)
	})

	return r
}
