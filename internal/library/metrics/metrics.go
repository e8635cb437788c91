// Package metrics provides observability for the resource library.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks snapshot assembly health and cache effectiveness.
type Metrics struct {
	FetchFailures  *prometheus.CounterVec
	SnapshotsBuilt prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheErrors    prometheus.Counter
}

// New creates a new Metrics instance with all library metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_library_category_fetch_failures_total",
			Help: "Category fetches that failed and were dropped from a snapshot",
		}, []string{"category"}),

		SnapshotsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_library_snapshots_built_total",
			Help: "Library snapshots assembled from the content source",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_library_cache_hits_total",
			Help: "Library requests served from the cached snapshot",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_library_cache_misses_total",
			Help: "Library requests that had to assemble a fresh snapshot",
		}),

		CacheErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_library_cache_errors_total",
			Help: "Cache reads or writes that failed and were bypassed",
		}),
	}
}

// IncFetchFailure records one dropped category fetch.
func (m *Metrics) IncFetchFailure(category string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(category).Inc()
	}
}

// IncSnapshotBuilt records one assembled snapshot.
func (m *Metrics) IncSnapshotBuilt() {
	if m != nil {
		m.SnapshotsBuilt.Inc()
	}
}

// IncCacheHit records one snapshot served from cache.
func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// IncCacheMiss records one snapshot absent from cache.
func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// IncCacheError records one bypassed cache failure.
func (m *Metrics) IncCacheError() {
	if m != nil {
		m.CacheErrors.Inc()
	}
}
