// Package metrics provides observability for the activity pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks activity event flow through the publisher and store.
type Metrics struct {
	EventsRecorded *prometheus.CounterVec
	EventsDropped  prometheus.Counter
	StoreFailures  prometheus.Counter
}

// New creates a new Metrics instance with all activity metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_activity_events_recorded_total",
			Help: "Activity events accepted by the publisher, by event type",
		}, []string{"event_type"}),

		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_activity_events_dropped_total",
			Help: "Activity events dropped because the buffer was full",
		}),

		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_activity_store_failures_total",
			Help: "Failed attempts to persist an activity entry",
		}),
	}
}

// IncRecorded counts an accepted event. Safe to call on a nil receiver.
func (m *Metrics) IncRecorded(eventType string) {
	if m == nil {
		return
	}
	m.EventsRecorded.WithLabelValues(eventType).Inc()
}

// IncDropped counts an event dropped on a full buffer. Safe to call on a nil
// receiver.
func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}

// IncStoreFailure counts a failed persist. Safe to call on a nil receiver.
func (m *Metrics) IncStoreFailure() {
	if m == nil {
		return
	}
	m.StoreFailures.Inc()
}
