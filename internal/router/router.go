package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/accsvc-dev/accsvc/internal/middleware/metrics"
	"github.com/accsvc-dev/accsvc/internal/setup"
)

// New creates and configures the service router with all routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	allowedOrigins := deps.Config.Public.CORSAllowedOrigins
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))
	}

	h := deps.Handler

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/images/{filename}", h.Image)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/verify/{token}", h.Verify)
		r.Post("/login", h.Login)
		r.Post("/create", h.Create)

		// Listing requires a session token; any valid token suffices.
		r.With(deps.AuthMiddleware.RequireAuth()).Get("/", h.List)
	})

	return r
}
