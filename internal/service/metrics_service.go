package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/academics-api/internal/models"
)

// Decode outcomes recorded by ObserveDecode.
const (
	DecodeOutcomeSuccess = "success"
	DecodeOutcomeFailure = "failure"
	DecodeOutcomeCached  = "cached"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	decodeDuration  *prometheus.HistogramVec
	decodeTotal     *prometheus.CounterVec
	coursesSkipped  *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	snapshotWrites  *prometheus.CounterVec
	exportsTotal    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	decodeCount          uint64
	decodeFailureCount   uint64
	skippedCount         uint64
	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	decodeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "academics_decode_duration_seconds",
		Help:    "Duration of payload decodes",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"operation"})

	decodeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academics_decodes_total",
		Help: "Total number of decode operations by outcome",
	}, []string{"operation", "outcome"})

	coursesSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academics_courses_skipped_total",
		Help: "Course elements skipped because of an unrecognized course type",
	}, []string{"course_type"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	snapshotWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academics_snapshot_writes_total",
		Help: "Snapshot persistence attempts by kind and result",
	}, []string{"kind", "result"})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "academics_exports_total",
		Help: "Generated export files by kind and format",
	}, []string{"kind", "format"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, decodeDuration, decodeTotal, coursesSkipped,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, snapshotWrites, exportsTotal,
		dbQueryDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		decodeDuration:  decodeDuration,
		decodeTotal:     decodeTotal,
		coursesSkipped:  coursesSkipped,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		snapshotWrites:  snapshotWrites,
		exportsTotal:    exportsTotal,
		dbQueryDuration: dbQueryDuration,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
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

// ObserveDecode records one decode operation. Cached results are counted but
// carry no duration.
func (m *MetricsService) ObserveDecode(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.decodeTotal.WithLabelValues(operation, outcome).Inc()
	atomic.AddUint64(&m.decodeCount, 1)
	switch outcome {
	case DecodeOutcomeFailure:
		atomic.AddUint64(&m.decodeFailureCount, 1)
		m.decodeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	case DecodeOutcomeSuccess:
		m.decodeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordCourseSkipped counts a course element dropped for its type code.
func (m *MetricsService) RecordCourseSkipped(courseType int) {
	if m == nil {
		return
	}
	m.coursesSkipped.WithLabelValues(fmt.Sprintf("%d", courseType)).Inc()
	atomic.AddUint64(&m.skippedCount, 1)
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordSnapshotWrite counts a snapshot persistence result: stored, duplicate or failed.
func (m *MetricsService) RecordSnapshotWrite(kind models.SnapshotKind, result string) {
	if m == nil {
		return
	}
	m.snapshotWrites.WithLabelValues(string(kind), result).Inc()
}

// RecordExport counts a generated export file.
func (m *MetricsService) RecordExport(kind models.ExportKind, format models.ExportFormat) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(string(kind), string(format)).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics for the system metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		DecodesTotal:             atomic.LoadUint64(&m.decodeCount),
		DecodeFailures:           atomic.LoadUint64(&m.decodeFailureCount),
		CoursesSkipped:           atomic.LoadUint64(&m.skippedCount),
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
