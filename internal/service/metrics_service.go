package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// MetricsService owns the Prometheus registry for HTTP, cache and scheduling workflow metrics.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	reconcileDuration prometheus.Observer
	reconcileRows     *prometheus.CounterVec
	activations       prometheus.Counter
	toggles           *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	mails             *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	reconcileCount       uint64
	notifierFailureCount uint64
}

// NewMetricsService registers the collectors on a private registry.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_view_cache_latency_seconds",
		Help:    "Latency of schedule view cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_view_cache_write_seconds",
		Help:    "Latency of schedule view cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_view_cache_hit_ratio",
		Help: "Ratio of cache hits to total schedule view lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_view_cache_hits_total",
		Help: "Total schedule view cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_view_cache_misses_total",
		Help: "Total schedule view cache misses",
	})

	reconcileDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_reconcile_duration_seconds",
		Help:    "Duration of schedule reconciliation runs",
		Buckets: prometheus.DefBuckets,
	})

	reconcileRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_reconcile_rows_created_total",
		Help: "Rows inserted by schedule reconciliation",
	}, []string{"kind"})

	activations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academic_period_activations_total",
		Help: "Successful academic period activations",
	})

	toggles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_publication_toggles_total",
		Help: "Schedule publication toggles",
	}, []string{"scope", "published"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "partner_notifications_total",
		Help: "Partner publication notifications by outcome",
	}, []string{"action", "result"})

	mails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_deliveries_total",
		Help: "Outbound mail deliveries by template and outcome",
	}, []string{"template", "result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		reconcileDuration, reconcileRows, activations, toggles, notifications, mails, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHitRatio:     cacheHitRatio,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		reconcileDuration: reconcileDuration,
		reconcileRows:     reconcileRows,
		activations:       activations,
		toggles:           toggles,
		notifications:     notifications,
		mails:             mails,
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

// Registry returns the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
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

// RecordCacheOperation records a cache lookup and updates the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveReconcile records a reconcile run and the rows it created.
func (m *MetricsService) ObserveReconcile(sectionCourses, schedules int, duration time.Duration) {
	if m == nil {
		return
	}
	m.reconcileDuration.Observe(duration.Seconds())
	m.reconcileRows.WithLabelValues("section_courses").Add(float64(sectionCourses))
	m.reconcileRows.WithLabelValues("schedules").Add(float64(schedules))
	atomic.AddUint64(&m.reconcileCount, 1)
}

// IncActivation counts a successful period activation.
func (m *MetricsService) IncActivation() {
	if m == nil {
		return
	}
	m.activations.Inc()
}

// IncPublicationToggle counts a publication toggle.
func (m *MetricsService) IncPublicationToggle(scope string, published bool) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(scope, strconv.FormatBool(published)).Inc()
}

// RecordNotification counts a partner notification outcome.
func (m *MetricsService) RecordNotification(action string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
		atomic.AddUint64(&m.notifierFailureCount, 1)
	}
	m.notifications.WithLabelValues(action, result).Inc()
}

// RecordMail counts a mail delivery outcome.
func (m *MetricsService) RecordMail(template string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.mails.WithLabelValues(template, result).Inc()
}

// Snapshot aggregates counters for the system metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            ratio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ReconcileRuns:            atomic.LoadUint64(&m.reconcileCount),
		NotifierFailures:         atomic.LoadUint64(&m.notifierFailureCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
