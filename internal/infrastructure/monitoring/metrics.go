package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/lcmp/internal/shared/problems"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label of successful operations. Failures are labeled with their
// problems.Kind.
const OutcomeSuccess = "success"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Context store metrics
	ContextsActiveGauge prometheus.Gauge
	ContextsCreated     prometheus.Counter
	ContextOperations   *prometheus.CounterVec

	// Application list metrics
	AppListQueries *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the health endpoint
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	ActiveContexts int64   `json:"active_contexts"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry, so several
// collectors can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcmp_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lcmp_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lcmp_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lcmp_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Context store metrics
		ContextsActiveGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lcmp_contexts_active",
				Help: "Number of active application contexts",
			},
		),
		ContextsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "lcmp_contexts_created_total",
				Help: "Total number of application contexts created",
			},
		),
		ContextOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcmp_context_operations_total",
				Help: "Total number of application context operations",
			},
			[]string{"operation", "outcome"},
		),

		// Application list metrics
		AppListQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcmp_app_list_queries_total",
				Help: "Total number of application list queries",
			},
			[]string{"outcome"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "lcmp_uptime_seconds",
			Help: "LCMP uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ContextCreated increments the created contexts counter
func (m *Metrics) ContextCreated() {
	m.ContextsCreated.Inc()
}

// ContextsActive sets the number of active contexts
func (m *Metrics) ContextsActive(n int) {
	m.ContextsActiveGauge.Set(float64(n))
	m.mu.Lock()
	m.snapshot.ActiveContexts = int64(n)
	m.mu.Unlock()
}

// ContextOperation records the outcome of a context store operation
func (m *Metrics) ContextOperation(operation string, err error) {
	m.ContextOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// RecordAppListQuery records the outcome of an application list query
func (m *Metrics) RecordAppListQuery(err error) {
	m.AppListQueries.WithLabelValues(Outcome(err)).Inc()
}

// Snapshot returns the current values for the JSON API.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}

// Outcome returns the label of an operation result.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if kind := problems.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
