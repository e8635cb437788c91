package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"rxcampus/internal/activity"
	"rxcampus/internal/catalog/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/sentinel"
	"rxcampus/pkg/requestcontext"
)

// Source supplies catalog rows from wherever the deployment reads content:
// the Airtable base directly, the Postgres mirror, or the seeded memory set.
type Source interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	FindProgramBySlug(ctx context.Context, slug id.Slug) (*models.Program, error)
	ListModules(ctx context.Context, programSlug id.Slug) ([]models.TrainingModule, error)
}

// ActivityPublisher records program views for logged-in members. Publishing
// must never fail a catalog read.
type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service orchestrates catalog reads. Active filtering and ordering live here
// so every source behaves identically.
type Service struct {
	source   Source
	activity ActivityPublisher
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithActivity publishes program views to the activity feed.
func WithActivity(publisher ActivityPublisher) Option {
	return func(s *Service) { s.activity = publisher }
}

func New(source Source, opts ...Option) *Service {
	s := &Service{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPrograms returns active programs in display order.
func (s *Service) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.source.ListPrograms(ctx)
	if err != nil {
		return nil, s.wrapSourceErr(ctx, err, "failed to list programs")
	}

	active := make([]models.Program, 0, len(programs))
	for _, p := range programs {
		if p.Active {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].DisplayOrder != active[j].DisplayOrder {
			return active[i].DisplayOrder < active[j].DisplayOrder
		}
		return active[i].Name < active[j].Name
	})
	return active, nil
}

// GetProgram returns one program with its modules ordered by module number.
// Inactive programs are treated as absent.
func (s *Service) GetProgram(ctx context.Context, rawSlug string) (*models.Program, []models.TrainingModule, error) {
	slug, err := id.ParseSlug(rawSlug)
	if err != nil {
		return nil, nil, err
	}

	program, err := s.source.FindProgramBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return nil, nil, s.wrapSourceErr(ctx, err, "failed to load program")
	}
	if !program.Active {
		return nil, nil, dErrors.New(dErrors.CodeNotFound, "program not found")
	}

	modules, err := s.source.ListModules(ctx, slug)
	if err != nil {
		return nil, nil, s.wrapSourceErr(ctx, err, "failed to load modules")
	}
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Number < modules[j].Number })

	s.recordView(ctx, program)

	return program, modules, nil
}

// recordView lands a program view in the member's activity feed. Anonymous
// reads are not tracked.
func (s *Service) recordView(ctx context.Context, program *models.Program) {
	if s.activity == nil {
		return
	}
	memberID := requestcontext.MemberID(ctx)
	if memberID.IsNil() {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		MemberID: memberID,
		Type:     activity.EventProgramViewed,
		Subject:  program.Slug.String(),
		Metadata: []any{"name", program.Name},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record program view",
			"program_slug", program.Slug,
			"error", err,
		)
	}
}

func (s *Service) wrapSourceErr(ctx context.Context, err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		s.logger.WarnContext(ctx, "content source unavailable", "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "content source unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
