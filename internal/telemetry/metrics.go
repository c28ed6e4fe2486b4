// Package telemetry provides observability primitives for the swxgate
// service.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the gateway.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ActiveRequests   prometheus.Gauge
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	StaleFallbacks   *prometheus.CounterVec
	CacheSize        prometheus.GaugeFunc
}

// NewMetrics creates and registers all metrics with the given registerer.
// cacheSize reports the store's current entry count; it may be nil.
func NewMetrics(reg prometheus.Registerer, cacheSize func() float64) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swxgate",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "swxgate",
			Name:                            "request_duration_seconds",
			Help:                            "HTTP request duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "swxgate",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "swxgate",
			Name:                            "upstream_duration_seconds",
			Help:                            "SWPC upstream call duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"product"}),

		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swxgate",
			Name:      "upstream_errors_total",
			Help:      "Total failed SWPC upstream calls.",
		}, []string{"product"}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swxgate",
			Name:      "cache_hits_total",
			Help:      "Total live cache hits on the fetch path.",
		}),

		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swxgate",
			Name:      "cache_misses_total",
			Help:      "Total cache misses on the fetch path.",
		}),

		StaleFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swxgate",
			Name:      "stale_fallbacks_total",
			Help:      "Total responses served from stale cache after an upstream failure.",
		}, []string{"product"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ActiveRequests,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.CacheHits,
		m.CacheMisses,
		m.StaleFallbacks,
	)

	if cacheSize != nil {
		m.CacheSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "swxgate",
			Name:      "cache_entries",
			Help:      "Current cache entry count, including not-yet-purged expired entries.",
		}, cacheSize)
		reg.MustRegister(m.CacheSize)
	}

	return m
}
