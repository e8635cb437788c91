package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rxcampus/internal/activity"
	membermetrics "rxcampus/internal/member/metrics"
	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/sentinel"
)

// MemberStore looks up seeded members. Misses are sentinel.ErrNotFound.
type MemberStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error)
}

// SessionStore tracks live dashboard sessions. It doubles as the auth
// middleware's session checker.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Revoke(ctx context.Context, sessionID id.SessionID) error
	IsSessionActive(ctx context.Context, sessionID id.SessionID) (bool, error)
}

// BookmarkStore persists saved resources. Create returns sentinel.ErrConflict
// for a duplicate (member, resource) pair; Delete returns sentinel.ErrNotFound
// when the bookmark does not exist or belongs to another member.
type BookmarkStore interface {
	ListByMember(ctx context.Context, memberID id.MemberID) ([]models.Bookmark, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, memberID id.MemberID, bookmarkID id.BookmarkID) error
}

// TokenIssuer mints access tokens for authenticated sessions.
type TokenIssuer interface {
	GenerateAccessToken(memberID id.MemberID, sessionID id.SessionID, expiresIn time.Duration) (string, error)
}

// ActivityPublisher records dashboard events. Publishing must never fail a
// member request; errors are logged and swallowed.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

const defaultTokenTTL = 15 * time.Minute

// Service implements member auth and the dashboard's bookmark operations.
type Service struct {
	members   MemberStore
	sessions  SessionStore
	bookmarks BookmarkStore
	tokens    TokenIssuer
	tokenTTL  time.Duration
	activity  ActivityPublisher
	logger    *slog.Logger
	metrics   *membermetrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *membermetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTokenTTL bounds issued tokens and their sessions.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithActivity publishes login and bookmark events to the activity feed.
func WithActivity(publisher ActivityPublisher) Option {
	return func(s *Service) { s.activity = publisher }
}

func withNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(members MemberStore, sessions SessionStore, bookmarks BookmarkStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		members:   members,
		sessions:  sessions,
		bookmarks: bookmarks,
		tokens:    tokens,
		tokenTTL:  defaultTokenTTL,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the member behind an authenticated request.
func (s *Service) Profile(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member")
	}
	return member, nil
}

func (s *Service) record(ctx context.Context, event activity.Event) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record activity event",
			"event_type", event.Type,
			"error", err,
		)
	}
}
