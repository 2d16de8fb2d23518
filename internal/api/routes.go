package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/cyclecal-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/phases
//	GET    /api/v1/calendar/{year}/{month}
//
//	X-API-Key required:
//	GET    /api/v1/profiles/{userID}
//	PUT    /api/v1/profiles/{userID}
//	DELETE /api/v1/profiles/{userID}
//	POST   /api/v1/profiles/{userID}/predictions/refresh
//	GET    /api/v1/profiles/{userID}/calendar/{year}/{month}
//	GET    /api/v1/profiles/{userID}/days/{date}
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	router.Get("/health", handlers.HealthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/phases", handlers.ListPhases)
		r.Get("/calendar/{year}/{month}", handlers.GetMonthGrid)

		// ======================================================================
		// Profile routes (authenticated)
		// ======================================================================
		r.Route("/profiles/{userID}", func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger), UserContextMiddleware())

			r.Get("/", handlers.GetProfile)
			r.Put("/", handlers.PutProfile)
			r.Delete("/", handlers.DeleteProfile)
			r.Post("/predictions/refresh", handlers.RefreshPredictions)
			r.Get("/calendar/{year}/{month}", handlers.GetProfileMonth)
			r.Get("/days/{date}", handlers.GetProfileDay)
		})
	})

	return router
}
