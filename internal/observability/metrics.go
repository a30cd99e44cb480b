package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the HTTP surface.
type Metrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCounter    *prometheus.CounterVec
}

// NewMetrics registers the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_http_requests_total",
			Help: "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickets_http_request_duration_seconds",
			Help:    "HTTP request latency by endpoint and method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)
	errorCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_errors_total",
			Help: "Total number of application errors by endpoint and code",
		},
		[]string{"endpoint", "method", "code"},
	)

	registry.MustRegister(requestCounter, requestDuration, errorCounter)

	return &Metrics{
		registry:        registry,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
		errorCounter:    errorCounter,
	}
}

// RecordRequest increments request counters and observes latency.
func (m *Metrics) RecordRequest(endpoint, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCounter.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

// RecordError increments the application error counter.
func (m *Metrics) RecordError(endpoint, method, code string) {
	if m == nil {
		return
	}
	m.errorCounter.WithLabelValues(endpoint, method, code).Inc()
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
