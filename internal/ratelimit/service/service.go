// Package service decides whether a client request fits its per-IP budget.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rxcampus/internal/ratelimit/metrics"
	"rxcampus/internal/ratelimit/models"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/requestcontext"
)

// BucketStore counts requests per key inside a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Limit is the budget for one endpoint class.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimits returns the per-class budgets. Content reads share the
// upstream Airtable allowance; auth attempts are kept an order of
// magnitude tighter.
func DefaultLimits() map[models.EndpointClass]Limit {
	return map[models.EndpointClass]Limit{
		models.ClassContent: {Requests: 60, Window: time.Minute},
		models.ClassAuth:    {Requests: 10, Window: time.Minute},
	}
}

// Service checks request budgets per client IP and endpoint class.
type Service struct {
	buckets BucketStore
	limits  map[models.EndpointClass]Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLimits overrides the default per-class budgets.
func WithLimits(limits map[models.EndpointClass]Limit) Option {
	return func(s *Service) { s.limits = limits }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}
	s := &Service{
		buckets: buckets,
		limits:  DefaultLimits(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckIP checks whether a request from ip fits the budget for class and
// records it if so. A class with no configured budget denies; a silently
// unlimited class would be worse than a loud one.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	limit, ok := s.limits[class]
	if !ok {
		s.logger.WarnContext(ctx, "no rate limit configured for endpoint class",
			"endpoint_class", class.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return &models.Result{
			Allowed:    false,
			ResetAt:    time.Now().Add(time.Minute),
			RetryAfter: 60,
		}, nil
	}

	key := models.ClientKey(class, ip)
	result, err := s.buckets.Allow(ctx, key, limit.Requests, limit.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if !result.Allowed {
		if s.metrics != nil {
			s.metrics.IncThrottled(class.String())
		}
		s.logger.WarnContext(ctx, "rate limit exceeded",
			"client_ip", ip,
			"endpoint_class", class.String(),
			"limit", limit.Requests,
			"window_seconds", int(limit.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return result, nil
}
