// Package server implements the HTTP transport layer for the swxgate
// service.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/app"
	"github.com/solweather/swxgate/internal/report"
	"github.com/solweather/swxgate/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// CacheAdmin is the read-only statistics and invalidation surface the admin
// handlers call directly on the store, with no additional wrapping.
type CacheAdmin interface {
	Stats() swx.CacheStats
	Invalidate(key string) bool
	InvalidateAll()
}

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Fetcher        *app.FetchService
	Products       []swx.Product
	Cache          CacheAdmin
	Reports        *report.Memo       // nil = render without memoization
	Metrics        *telemetry.Metrics // nil = no instrumentation
	MetricsHandler http.Handler       // nil = no /metrics route
	ReadyCheck     ReadyChecker       // nil = always ready (for tests)
	AdminKey       string             // "" = admin endpoints open
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	// Global middleware
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// System endpoints
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// Data API
	r.Get("/v1/products", s.handleListProducts)
	r.Get("/v1/products/{id}", s.handleGetProduct)
	r.Get("/v1/summary", s.handleSummary)

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(s.adminAuth)
		r.Get("/admin/v1/cache/stats", s.handleCacheStats)
		r.Delete("/admin/v1/cache/{id}", s.handleCacheInvalidate)
		r.Post("/admin/v1/cache/purge", s.handleCachePurge)
	})

	return r
}

type server struct {
	deps Deps
}
