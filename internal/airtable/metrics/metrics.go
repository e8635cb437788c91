// Package metrics provides observability for the Airtable client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks outbound Airtable traffic, retries, and pacing delay.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	RetriesTotal  *prometheus.CounterVec
	ThrottleWait  prometheus.Counter
}

// New creates a new Metrics instance with all Airtable client metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_airtable_requests_total",
			Help: "Total Airtable API requests by operation and status class",
		}, []string{"operation", "status"}), // status: "2xx", "4xx", "5xx", "429", "error"

		RetriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_airtable_retries_total",
			Help: "Total Airtable request retries by reason",
		}, []string{"reason"}), // reason: "rate_limited", "server_error"

		ThrottleWait: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_airtable_throttle_wait_seconds_total",
			Help: "Cumulative seconds spent waiting for a request pacing slot",
		}),
	}
}

// IncRequest records one completed request attempt.
func (m *Metrics) IncRequest(operation, status string) {
	if m != nil {
		m.RequestsTotal.WithLabelValues(operation, status).Inc()
	}
}

// IncRetry records one retry and its trigger.
func (m *Metrics) IncRetry(reason string) {
	if m != nil {
		m.RetriesTotal.WithLabelValues(reason).Inc()
	}
}

// AddThrottleWait accumulates time spent queued behind the pacer.
func (m *Metrics) AddThrottleWait(d time.Duration) {
	if m != nil && d > 0 {
		m.ThrottleWait.Add(d.Seconds())
	}
}
