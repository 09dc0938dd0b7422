package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/socialdesk/socialdesk/internal/config"
)

// Metrics holds the HTTP collectors on a registry of its own
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	responsesTotal  *prometheus.CounterVec
}

func NewMetrics(cfg *config.Configuration) *Metrics {
	prefix := cfg.Metrics.Prefix
	if prefix == "" {
		prefix = "socialdesk"
	}

	m := &Metrics{
		enabled:  cfg.Metrics.Enabled,
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		responsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_responses_total",
				Help: "Total number of HTTP responses by status class",
			},
			[]string{"class"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.responsesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) IsEnabled() bool {
	return m != nil && m.enabled
}

// ObserveRequest records one served request. path is the route template, not the raw URL.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if !m.IsEnabled() {
		return
	}
	if path == "" {
		path = "unmatched"
	}

	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.responsesTotal.WithLabelValues(StatusClass(status)).Inc()
}

// StatusClass buckets a status code as "2xx", "4xx" and so on
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
