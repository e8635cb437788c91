package activity

import (
	"context"
	"log/slog"

	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Service serves the dashboard's recent activity feed.
type Service struct {
	store  Store
	logger *slog.Logger
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recent returns the member's newest entries first. A non-positive limit
// falls back to the default; anything above the cap is clamped.
func (s *Service) Recent(ctx context.Context, memberID id.MemberID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	entries, err := s.store.ListRecent(ctx, memberID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent activity")
	}
	return entries, nil
}
