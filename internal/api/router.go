package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/clipgrab/internal/api/handler"
	mw "github.com/iconidentify/clipgrab/internal/api/middleware"
)

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Download *handler.DownloadHandler
	Classify *handler.ClassifyHandler
	Jobs     *handler.JobHandler
	Health   *handler.HealthHandler
}

// NewRouter creates the HTTP router with all routes configured.
// An empty apiKey leaves every route unauthenticated.
func NewRouter(h Handlers, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CleanPath) // //ready -> /ready
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.CORS)

	r.Get("/health", h.Health.Live)
	r.Get("/ready", h.Health.Ready)

	protected := func(r chi.Router) {
		if apiKey != "" {
			r.Use(mw.APIKeyAuth(apiKey))
		}
	}

	// Synchronous download; bounded by the handler's acquire timeout.
	r.Group(func(r chi.Router) {
		protected(r)
		r.Get("/download", h.Download.Download)
	})

	r.Route("/api/v1", func(r chi.Router) {
		protected(r)
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/stats", h.Health.Stats)
		r.Get("/classify", h.Classify.Classify)

		r.Post("/downloads", h.Jobs.Submit)
		r.Get("/downloads", h.Jobs.List)
		r.Get("/downloads/{jobID}", h.Jobs.Get)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
