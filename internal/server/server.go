// Package server exposes the monitoring subsystem over HTTP: health
// snapshots, cache and error-ledger administration, bond record
// fetches and Prometheus metrics. Every endpoint answers with the
// {"success": bool, "data": ...} envelope.
package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bondradar/bondmon/pkg/cache"
	"github.com/bondradar/bondmon/pkg/errlog"
	"github.com/bondradar/bondmon/pkg/gateway"
	"github.com/bondradar/bondmon/pkg/health"
	"github.com/bondradar/bondmon/pkg/logging"
)

// Server holds the subsystem handles the HTTP endpoints operate on.
type Server struct {
	cache          *cache.Cache[[]byte]
	ledger         *errlog.Ledger
	gateway        *gateway.Gateway[[]byte]
	registry       *health.Registry
	criticalWindow time.Duration
	logger         zerolog.Logger
}

// New creates the HTTP boundary over the given subsystem parts.
// criticalWindow scopes the critical-error figures in /errors/stats.
func New(
	store *cache.Cache[[]byte],
	ledger *errlog.Ledger,
	gw *gateway.Gateway[[]byte],
	registry *health.Registry,
	criticalWindow time.Duration,
) *Server {
	return &Server{
		cache:          store,
		ledger:         ledger,
		gateway:        gw,
		registry:       registry,
		criticalWindow: criticalWindow,
		logger:         logging.NewLogger("server"),
	}
}

// Router assembles the chi router with all endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/health/summary", s.handleHealthSummary)
	r.Get("/health/components/{name}", s.handleHealthComponent)

	r.Get("/cache/stats", s.handleCacheStats)
	r.Post("/cache/cleanup", s.handleCacheCleanup)
	r.Delete("/cache/clear", s.handleCacheClear)

	r.Get("/errors/stats", s.handleErrorStats)
	r.Delete("/errors/reset", s.handleErrorReset)

	r.Get("/bonds/{isin}", s.handleBond)
	r.Post("/bonds/batch", s.handleBondBatch)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
