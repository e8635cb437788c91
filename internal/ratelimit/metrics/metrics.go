// Package metrics provides observability for rate limiting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks throttled requests per endpoint class.
type Metrics struct {
	Throttled *prometheus.CounterVec
}

// New creates a new Metrics instance with all rate limit metrics registered.
func New() *Metrics {
	return &Metrics{
		Throttled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_ratelimit_throttled_total",
			Help: "Requests rejected by the per-IP rate limiter",
		}, []string{"class"}),
	}
}

// IncThrottled records one rejected request.
func (m *Metrics) IncThrottled(class string) {
	if m != nil {
		m.Throttled.WithLabelValues(class).Inc()
	}
}
