// Package metrics provides observability for enrollment submissions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks enrollment form throughput and sink health.
type Metrics struct {
	Received     prometheus.Counter
	SinkFailures prometheus.Counter
}

// New creates a new Metrics instance with all enrollment metrics registered.
func New() *Metrics {
	return &Metrics{
		Received: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_enroll_requests_received_total",
			Help: "Enrollment requests accepted and stored",
		}),

		SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_enroll_sink_failures_total",
			Help: "Enrollment submissions the backend failed to store",
		}),
	}
}

// IncReceived records one stored submission.
func (m *Metrics) IncReceived() {
	if m != nil {
		m.Received.Inc()
	}
}

// IncSinkFailure records one failed store.
func (m *Metrics) IncSinkFailure() {
	if m != nil {
		m.SinkFailures.Inc()
	}
}
