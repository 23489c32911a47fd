package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leapstack-labs/leapprose/pkg/lint"
)

const metricsNamespace = "leapprose"

// metrics holds the server's collectors. Each server has its own registry
// so tests can build servers side by side.
type metrics struct {
	registry *prometheus.Registry

	// requests counts HTTP requests.
	// Labels: method, route (chi pattern), code
	requests *prometheus.CounterVec

	// duration measures request latency.
	// Labels: route
	duration *prometheus.HistogramVec

	// texts counts texts linted successfully.
	texts prometheus.Counter

	// findings counts reported findings.
	// Labels: severity (error, warning, suggestion)
	findings *prometheus.CounterVec

	// reloads counts config reloads.
	// Labels: status (success, error)
	reloads *prometheus.CounterVec

	// active is the number of checks enabled by the serving configuration.
	active prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status code",
		}, []string{"method", "route", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		texts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "lint",
			Name:      "texts_total",
			Help:      "Texts linted",
		}),
		findings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "lint",
			Name:      "findings_total",
			Help:      "Findings reported by severity",
		}, []string{"severity"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "config",
			Name:      "reloads_total",
			Help:      "Config reloads by status",
		}, []string{"status"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "lint",
			Name:      "active_checks",
			Help:      "Checks enabled by the serving configuration",
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) observeFindings(texts int, findings []lint.Finding) {
	m.texts.Add(float64(texts))
	for _, f := range findings {
		m.findings.WithLabelValues(f.Severity.String()).Inc()
	}
}
