// Package swx defines domain types and interfaces for the swxgate space
// weather gateway. This package has no project imports -- it is the
// dependency root.
package swx

import (
	"context"
	"encoding/json"
	"time"
)

// --- Products ---

// Kind classifies a product by how quickly its upstream data changes.
// The fetch layer derives cache TTLs from it.
type Kind string

const (
	// KindRealtime covers short-period measurements: flares, X-ray flux,
	// solar wind plasma and magnetic field.
	KindRealtime Kind = "realtime"
	// KindIndex covers periodically issued indices such as the planetary
	// K-index.
	KindIndex Kind = "index"
	// KindForecast covers issued forecasts and predicted scales.
	KindForecast Kind = "forecast"
	// KindHistorical covers rarely-changing historical series such as
	// observed solar-cycle indices.
	KindHistorical Kind = "historical"
	// KindAlerts covers the SWPC alert/watch/warning feed.
	KindAlerts Kind = "alerts"
)

// Product describes one upstream SWPC data feed.
type Product struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Path        string `json:"path"`        // URL path relative to the upstream base
	TimeField   string `json:"time_field"`  // record field carrying the observation time, "" if none
	Description string `json:"description"`
}

// --- Fetch results ---

// Source identifies where a fetch result's payload came from.
const (
	SourceCache = "cache"
	SourceFetch = "fetch"
)

// Result is the outcome of an orchestrated fetch. A Result is only produced
// for successes; hard failures are returned as errors (UpstreamError or
// RetrievalError). A stale fallback is a success with a non-empty Warning.
type Result struct {
	ProductID string          `json:"product_id"`
	Source    string          `json:"source"` // "cache" or "fetch"
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale,omitempty"`
	Warning   string          `json:"warning,omitempty"` // advisory set on stale fallback
	Data      json.RawMessage `json:"data"`
}

// FetchOptions control a single orchestrated fetch.
type FetchOptions struct {
	// ForceRefresh bypasses the cache read and always hits the upstream.
	ForceRefresh bool
	// TTLOverride replaces the per-kind TTL for the resulting cache entry
	// when > 0.
	TTLOverride time.Duration
}

// QueryOptions shape a fetched record collection after retrieval. They act
// only on the returned data, never on the cache.
type QueryOptions struct {
	Start  time.Time         // inclusive lower bound on the product's time field
	End    time.Time         // exclusive upper bound
	Equals map[string]string // field-equality filters, all must match
	SortBy string            // record field to sort by, "" = upstream order
	Desc   bool
	Limit  int // 0 = unlimited
}

// --- Cache ---

// CacheStats is a read-only snapshot of the cache store.
type CacheStats struct {
	Size       int           `json:"size"`
	MaxEntries int           `json:"max_entries"`
	TTL        time.Duration `json:"ttl"`
}

// --- Retrieval ---

// Retriever performs one upstream request for a product. Implementations
// make exactly one attempt: no retries, no coalescing of concurrent calls.
type Retriever interface {
	Retrieve(ctx context.Context, p Product) ([]byte, error)
}

// --- Context keys ---

type contextKey int

const ctxKeyRequestID contextKey = 0

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
