package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for the calendar API.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	eventWrites     *prometheus.CounterVec
	conflicts       *prometheus.CounterVec
	blobsDeleted    *prometheus.CounterVec
	aiRequests      *prometheus.CounterVec
	aiLatency       prometheus.Histogram
	streamClients   prometheus.Gauge
}

// NewMetricsService registers every collector on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_cache_lookups_total",
			Help: "Event list cache lookups by result",
		}, []string{"result"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "event_cache_latency_seconds",
			Help:    "Latency of event cache reads",
			Buckets: prometheus.DefBuckets,
		}),
		eventWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_writes_total",
			Help: "Event and proker writes by table and action",
		}, []string{"table", "action"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_conflicts_total",
			Help: "Overlapping schedules detected, by outcome",
		}, []string{"outcome"}),
		blobsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blobs_deleted_total",
			Help: "Unreferenced blobs removed, by trigger",
		}, []string{"trigger"}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jarkoman_requests_total",
			Help: "Broadcast text generations by result",
		}, []string{"result"}),
		aiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jarkoman_latency_seconds",
			Help:    "Latency of the chat completion call",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_stream_clients",
			Help: "Connected change-feed clients",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(m.requestDuration, m.requestTotal, m.cacheLookups, m.cacheLatency, m.eventWrites,
		m.conflicts, m.blobsDeleted, m.aiRequests, m.aiLatency, m.streamClients, goroutines)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup counts a cache read as hit, miss or error.
func (m *MetricsService) RecordCacheLookup(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheLatency.Observe(duration.Seconds())
}

// RecordWrite counts a persisted change.
func (m *MetricsService) RecordWrite(table, action string) {
	if m == nil {
		return
	}
	m.eventWrites.WithLabelValues(table, action).Inc()
}

// RecordConflict counts an overlap. outcome is "warned" or "confirmed".
func (m *MetricsService) RecordConflict(outcome string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(outcome).Inc()
}

// RecordBlobsDeleted adds n removed blobs for trigger ("release" or "sweep").
func (m *MetricsService) RecordBlobsDeleted(trigger string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.blobsDeleted.WithLabelValues(trigger).Add(float64(n))
}

// ObserveAI records a chat completion call.
func (m *MetricsService) ObserveAI(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(result).Inc()
	m.aiLatency.Observe(duration.Seconds())
}

// StreamConnected adjusts the change-feed client gauge by delta.
func (m *MetricsService) StreamConnected(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}
