// Package http wires the review, contact, and stream handlers into a chi
// router with the shared middleware stack.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dylanhandelman-boy/irishcousinevents/pkg/health"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/middleware"
)

const serviceName = "site-backend"

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Reviews     *ReviewHandler
	Contact     *ContactHandler
	Stream      *StreamHandler
	Health      *health.Handler
	Logger      *slog.Logger
	Environment string
	CORSOrigins []string
}

// NewRouter builds the HTTP router: middleware chain, versioned API routes,
// health probes, and the metrics endpoint.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	if len(cfg.CORSOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.CORSOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", cfg.Reviews.ListReviews)
			r.Post("/", cfg.Reviews.SubmitReview)
			r.Get("/stream", cfg.Stream.Stream)
		})
		r.Post("/contact", cfg.Contact.SubmitContact)
	})

	return r
}
