// Package metrics provides observability for member auth and bookmarks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks login outcomes and bookmark churn.
type Metrics struct {
	Logins           *prometheus.CounterVec
	SessionsRevoked  prometheus.Counter
	BookmarksCreated prometheus.Counter
	BookmarksRemoved prometheus.Counter
}

// New creates a new Metrics instance with all member metrics registered.
func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rxcampus_member_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),

		SessionsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_member_sessions_revoked_total",
			Help: "Sessions revoked by logout",
		}),

		BookmarksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_member_bookmarks_created_total",
			Help: "Bookmarks saved to member dashboards",
		}),

		BookmarksRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rxcampus_member_bookmarks_removed_total",
			Help: "Bookmarks removed from member dashboards",
		}),
	}
}

// IncLoginSuccess counts a successful login. Safe to call on a nil receiver.
func (m *Metrics) IncLoginSuccess() {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues("success").Inc()
}

// IncLoginFailure counts a rejected login. Safe to call on a nil receiver.
func (m *Metrics) IncLoginFailure() {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues("failure").Inc()
}

// IncSessionRevoked counts a logout. Safe to call on a nil receiver.
func (m *Metrics) IncSessionRevoked() {
	if m == nil {
		return
	}
	m.SessionsRevoked.Inc()
}

// IncBookmarkCreated counts a saved bookmark. Safe to call on a nil receiver.
func (m *Metrics) IncBookmarkCreated() {
	if m == nil {
		return
	}
	m.BookmarksCreated.Inc()
}

// IncBookmarkRemoved counts a removed bookmark. Safe to call on a nil receiver.
func (m *Metrics) IncBookmarkRemoved() {
	if m == nil {
		return
	}
	m.BookmarksRemoved.Inc()
}
