// Package app implements the fetch orchestration between the cache store
// and the upstream retrieval client.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/cache"
	"github.com/solweather/swxgate/internal/telemetry"
)

const keyPrefix = "swpc:"

// CacheKey derives the cache key for a product. The derivation is the only
// namespacing the cache has; keys are otherwise opaque to the store.
func CacheKey(productID string) string {
	return keyPrefix + productID
}

// DefaultTTLs maps product kinds to cache lifetimes. Real-time feeds and
// alerts turn over in about a minute upstream; indices are issued every few
// minutes; forecasts and historical series barely move.
var DefaultTTLs = map[swx.Kind]time.Duration{
	swx.KindRealtime:   time.Minute,
	swx.KindIndex:      3 * time.Minute,
	swx.KindForecast:   time.Hour,
	swx.KindHistorical: 24 * time.Hour,
	swx.KindAlerts:     time.Minute,
}

// defaultTTL applies to kinds missing from the table.
const defaultTTL = 3 * time.Minute

// Cache is the subset of the store the orchestrator needs.
type Cache interface {
	Get(key string) (cache.Entry, bool)
	GetStale(key string) (cache.Entry, bool)
	Set(key string, data []byte, ttlOverride time.Duration)
}

// FetchService returns product data, preferring cache and falling back to
// stale cache when the upstream fails. Every call makes at most one upstream
// attempt; concurrent misses for the same key are not coalesced, so two
// simultaneous callers can both hit the upstream and both write the cache.
type FetchService struct {
	retriever swx.Retriever
	cache     Cache
	products  map[string]swx.Product
	ttls      map[swx.Kind]time.Duration
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewFetchService wires the orchestrator. ttls overrides DefaultTTLs per
// kind when non-nil entries are present; metrics may be nil.
func NewFetchService(r swx.Retriever, c Cache, products []swx.Product, ttls map[swx.Kind]time.Duration, m *telemetry.Metrics) *FetchService {
	pm := make(map[string]swx.Product, len(products))
	for _, p := range products {
		pm[p.ID] = p
	}
	merged := make(map[swx.Kind]time.Duration, len(DefaultTTLs))
	for k, v := range DefaultTTLs {
		merged[k] = v
	}
	for k, v := range ttls {
		if v > 0 {
			merged[k] = v
		}
	}
	return &FetchService{
		retriever: r,
		cache:     c,
		products:  pm,
		ttls:      merged,
		metrics:   m,
		tracer:    telemetry.Tracer("swxgate/fetch"),
		now:       time.Now,
	}
}

// Product returns the catalog entry for id.
func (s *FetchService) Product(id string) (swx.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

// Fetch returns data for a product. The only errors it returns are
// *swx.UpstreamError, *swx.RetrievalError and swx.ErrUnknownProduct; any
// lower-level failure is absorbed into one of those or into a successful
// stale-fallback Result carrying a Warning.
func (s *FetchService) Fetch(ctx context.Context, productID string, opts swx.FetchOptions) (*swx.Result, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", swx.ErrUnknownProduct, productID)
	}
	key := CacheKey(productID)

	if !opts.ForceRefresh {
		if e, ok := s.cache.Get(key); ok {
			s.countHit()
			return &swx.Result{
				ProductID: productID,
				Source:    swx.SourceCache,
				FetchedAt: e.FetchedAt,
				Data:      e.Data,
			}, nil
		}
		s.countMiss()
	}

	body, err := s.retrieve(ctx, p)
	if err != nil {
		var ue *swx.UpstreamError
		if errors.As(err, &ue) {
			return s.staleFallback(productID, key,
				fmt.Sprintf("stale data: upstream returned HTTP %s", ue.Status), ue)
		}
		return s.staleFallback(productID, key,
			fmt.Sprintf("stale data: %v", err),
			&swx.RetrievalError{ProductID: productID, Cause: err})
	}

	if !gjson.ValidBytes(body) {
		err := errors.New("malformed JSON payload")
		return s.staleFallback(productID, key,
			"stale data: "+err.Error(),
			&swx.RetrievalError{ProductID: productID, Cause: err})
	}

	ttl := opts.TTLOverride
	if ttl <= 0 {
		ttl = s.ttlFor(p.Kind)
	}
	s.cache.Set(key, body, ttl)

	return &swx.Result{
		ProductID: productID,
		Source:    swx.SourceFetch,
		FetchedAt: s.now(),
		Data:      body,
	}, nil
}

// retrieve performs the single upstream attempt inside a span.
func (s *FetchService) retrieve(ctx context.Context, p swx.Product) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "swpc.retrieve",
		trace.WithAttributes(attribute.String("swpc.product", p.ID)))
	defer span.End()

	start := time.Now()
	body, err := s.retriever.Retrieve(ctx, p)
	if s.metrics != nil {
		s.metrics.UpstreamDuration.WithLabelValues(p.ID).Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.UpstreamErrors.WithLabelValues(p.ID).Inc()
		}
	}
	if err != nil {
		span.RecordError(err)
	}
	return body, err
}

// staleFallback re-queries the cache ignoring expiry. A hit becomes a
// degraded success with the advisory warning; a miss surfaces failErr.
func (s *FetchService) staleFallback(productID, key, warning string, failErr error) (*swx.Result, error) {
	e, ok := s.cache.GetStale(key)
	if !ok {
		return nil, failErr
	}
	if s.metrics != nil {
		s.metrics.StaleFallbacks.WithLabelValues(productID).Inc()
	}
	return &swx.Result{
		ProductID: productID,
		Source:    swx.SourceCache,
		FetchedAt: e.FetchedAt,
		Stale:     true,
		Warning:   warning,
		Data:      e.Data,
	}, nil
}

func (s *FetchService) ttlFor(k swx.Kind) time.Duration {
	if ttl, ok := s.ttls[k]; ok {
		return ttl
	}
	return defaultTTL
}

func (s *FetchService) countHit() {
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
}

func (s *FetchService) countMiss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}
}
