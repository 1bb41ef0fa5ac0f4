package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tohafrit/workqueue/backend/internal/config"
	"github.com/tohafrit/workqueue/pkg/workqueue/observability"
)

// Deps are the collaborators the router exposes over HTTP.
type Deps struct {
	Queue    TaskQueue
	Jobs     *JobRegistry
	Health   *observability.HealthChecker
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Probes and metrics
	r.Get("/healthz", deps.Health.HealthzHandler())
	r.Get("/livez", deps.Health.LivenessHandler())
	r.Get("/readyz", deps.Health.ReadinessHandler())

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(AuthMiddleware(cfg))
		}

		r.Get("/stats", handleGetStats(deps.Queue))

		r.Get("/jobs", handleListJobs(deps.Jobs))
		r.Post("/jobs", handleSubmitJobs(deps.Queue, deps.Jobs))
		r.Get("/jobs/{jobID}", handleGetJob(deps.Jobs))
	})

	return r
}
