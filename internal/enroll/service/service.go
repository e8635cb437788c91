// Package service validates and records enrollment form submissions.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"rxcampus/internal/enroll/metrics"
	"rxcampus/internal/enroll/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/email"
	"rxcampus/pkg/platform/sentinel"
	"rxcampus/pkg/requestcontext"
)

// maxMessageLen caps the free-text field on the public form.
const maxMessageLen = 2000

// Sink records an accepted submission: the Airtable Enrollments table in
// proxy mode, the Postgres mirror otherwise.
type Sink interface {
	Submit(ctx context.Context, req models.EnrollmentRequest) error
}

// SubmitInput carries the raw form fields.
type SubmitInput struct {
	Name        string
	Email       string
	ProgramSlug string
	Message     string
}

// Service validates submissions and hands them to the configured sink.
type Service struct {
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// withNow fixes the clock for tests.
func withNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(sink Sink, opts ...Option) *Service {
	s := &Service{
		sink:   sink,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the form fields and records the request. The program
// slug is optional; when present it must be well formed, but it is not
// checked against the catalog, since a request for a paused program is
// still worth a follow-up call.
func (s *Service) Submit(ctx context.Context, input SubmitInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}

	normalized := email.Normalize(input.Email)
	if normalized == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if !email.IsValid(normalized) {
		return dErrors.New(dErrors.CodeInvalidInput, "email address is invalid")
	}

	slug := strings.TrimSpace(input.ProgramSlug)
	if slug != "" {
		parsed, err := id.ParseSlug(slug)
		if err != nil {
			return err
		}
		slug = parsed.String()
	}

	message := strings.TrimSpace(input.Message)
	if len(message) > maxMessageLen {
		return dErrors.New(dErrors.CodeInvalidInput, "message is too long")
	}

	req := models.EnrollmentRequest{
		ID:          uuid.New(),
		Name:        name,
		Email:       normalized,
		ProgramSlug: slug,
		Message:     message,
		SubmittedAt: s.now().UTC(),
	}

	if err := s.sink.Submit(ctx, req); err != nil {
		if s.metrics != nil {
			s.metrics.IncSinkFailure()
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			s.logger.WarnContext(ctx, "enrollment sink unavailable",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "enrollment backend unavailable")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store enrollment request")
	}

	if s.metrics != nil {
		s.metrics.IncReceived()
	}
	s.logger.InfoContext(ctx, "enrollment request received",
		"program_slug", slug,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
