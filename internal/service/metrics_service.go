package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trth/performance-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides
// lightweight snapshots for the ops endpoints.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	permCacheHits   prometheus.Counter
	permCacheMisses prometheus.Counter
	permCacheRatio  prometheus.Gauge
	sweepDeactived  prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	transitionCount      uint64
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_transitions_total",
		Help: "Assessment workflow transitions by resulting status",
	}, []string{"status"})

	permCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "permission_cache_hits_total",
		Help: "Total permission cache hits",
	})

	permCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "permission_cache_misses_total",
		Help: "Total permission cache misses",
	})

	permCacheRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "permission_cache_hit_ratio",
		Help: "Ratio of permission cache hits to total lookups",
	})

	sweepDeactived := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delegations_deactivated_total",
		Help: "Delegations deactivated by the expiry sweep",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, transitionTotal, permCacheHits, permCacheMisses, permCacheRatio, sweepDeactived, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		transitionTotal: transitionTotal,
		permCacheHits:   permCacheHits,
		permCacheMisses: permCacheMisses,
		permCacheRatio:  permCacheRatio,
		sweepDeactived:  sweepDeactived,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for
// snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveTransition records one workflow transition by resulting status.
func (m *MetricsService) ObserveTransition(status models.AssessmentStatus) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(string(status)).Inc()
	atomic.AddUint64(&m.transitionCount, 1)
}

// RecordPermissionLookup records a permission cache hit or miss and updates
// the hit ratio.
func (m *MetricsService) RecordPermissionLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.permCacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.permCacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.permCacheRatio.Set(float64(hits) / float64(total))
	}
}

// RecordSweep counts delegations deactivated by the expiry sweep.
func (m *MetricsService) RecordSweep(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.sweepDeactived.Add(float64(count))
}

// Snapshot returns aggregated stats for the ops status endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}
	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		PermissionCacheHitRatio:  cacheRatio,
		PermissionCacheHits:      hits,
		PermissionCacheMisses:    misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		Transitions:              atomic.LoadUint64(&m.transitionCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
