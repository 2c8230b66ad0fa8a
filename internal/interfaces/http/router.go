// Package http wires the chi route tree and the HTTP server around the
// analytics handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http/handlers"
	"github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	MLHandler     *handlers.MLHandler
	DocsHandler   *handlers.DocsHandler
	HealthHandler *handlers.HealthHandler

	Logger         logging.Logger
	HTTPObserver   middleware.HTTPObserver
	MetricsHandler http.Handler
	CORS           *middleware.CORSConfig
}

// NewRouter constructs the complete route tree: global middleware, health
// probes, the metrics endpoint, and the two analytics route groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	cors := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		cors = *cfg.CORS
	}
	r.Use(middleware.CORS(cors))

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.HTTPObserver != nil {
		r.Use(middleware.Metrics(cfg.HTTPObserver))
	}

	r.Get("/healthz", cfg.HealthHandler.Liveness)
	r.Get("/readyz", cfg.HealthHandler.Readiness)
	r.Get("/debug/deadlines", cfg.HealthHandler.DebugDeadlines)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/ml", func(ml chi.Router) {
		ml.Get("/supervised/risk", cfg.MLHandler.Risk)
		ml.Get("/unsupervised/clusters", cfg.MLHandler.Clusters)
		ml.Get("/unsupervised/anomalies", cfg.MLHandler.Anomalies)
		ml.Get("/deep/deadlines/autoencoder", cfg.MLHandler.Autoencoder)
		ml.Get("/deep/documents/autoencoder", cfg.DocsHandler.Autoencoder)
		ml.Get("/regression/deadlines/days-to-due", cfg.MLHandler.DaysRegression)
	})

	r.Route("/docs", func(docs chi.Router) {
		docs.Get("/unsupervised/clusters", cfg.DocsHandler.Clusters)
		docs.Get("/unsupervised/anomalies", cfg.DocsHandler.Anomalies)
		docs.Get("/regression/size-mb", cfg.DocsHandler.SizeRegression)
		docs.Get("/near-duplicates", cfg.DocsHandler.NearDuplicates)
	})

	return r
}
