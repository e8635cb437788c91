// Package metrics registers the application-wide HTTP metrics. Subsystems own
// their domain metrics in their own metrics packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared across all HTTP endpoints.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxcampus_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method, and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route", "method", "status"}),

		RequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rxcampus_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// IncInFlight marks a request as started.
func (m *Metrics) IncInFlight() {
	if m != nil {
		m.RequestsInFlight.Inc()
	}
}

// DecInFlight marks a request as finished.
func (m *Metrics) DecInFlight() {
	if m != nil {
		m.RequestsInFlight.Dec()
	}
}
