package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxcampus/internal/activity"
	"rxcampus/internal/catalog/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/sentinel"
	"rxcampus/pkg/requestcontext"
)

type stubSource struct {
	programs []models.Program
	modules  []models.TrainingModule
	err      error
}

func (s *stubSource) ListPrograms(context.Context) ([]models.Program, error) {
	return s.programs, s.err
}

func (s *stubSource) FindProgramBySlug(_ context.Context, slug id.Slug) (*models.Program, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.programs {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *stubSource) ListModules(_ context.Context, slug id.Slug) ([]models.TrainingModule, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.TrainingModule
	for _, m := range s.modules {
		if m.ProgramSlug == slug {
			out = append(out, m)
		}
	}
	return out, nil
}

func newService(src Source) *Service {
	return New(src, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestListProgramsFiltersInactiveAndSorts(t *testing.T) {
	src := &stubSource{programs: []models.Program{
		{Slug: "billing", Name: "Billing", DisplayOrder: 3, Active: true},
		{Slug: "retired", Name: "Retired Program", DisplayOrder: 1, Active: false},
		{Slug: "immunization", Name: "Immunization", DisplayOrder: 2, Active: true},
		{Slug: "mtm", Name: "MTM", DisplayOrder: 1, Active: true},
	}}

	programs, err := newService(src).ListPrograms(context.Background())
	require.NoError(t, err)

	slugs := make([]string, 0, len(programs))
	for _, p := range programs {
		slugs = append(slugs, p.Slug.String())
	}
	assert.Equal(t, []string{"mtm", "immunization", "billing"}, slugs)
}

func TestListProgramsBreaksOrderTiesByName(t *testing.T) {
	src := &stubSource{programs: []models.Program{
		{Slug: "b", Name: "Beta", DisplayOrder: 1, Active: true},
		{Slug: "a", Name: "Alpha", DisplayOrder: 1, Active: true},
	}}

	programs, err := newService(src).ListPrograms(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "Alpha", programs[0].Name)
}

func TestGetProgramOrdersModules(t *testing.T) {
	src := &stubSource{
		programs: []models.Program{{Slug: "mtm", Name: "MTM", Active: true}},
		modules: []models.TrainingModule{
			{ProgramSlug: "mtm", Number: 3, Title: "Billing"},
			{ProgramSlug: "mtm", Number: 1, Title: "Foundations"},
			{ProgramSlug: "other", Number: 1, Title: "Unrelated"},
			{ProgramSlug: "mtm", Number: 2, Title: "CMR"},
		},
	}

	program, modules, err := newService(src).GetProgram(context.Background(), "mtm")
	require.NoError(t, err)
	assert.Equal(t, "MTM", program.Name)
	require.Len(t, modules, 3)
	assert.Equal(t, "Foundations", modules[0].Title)
	assert.Equal(t, "CMR", modules[1].Title)
	assert.Equal(t, "Billing", modules[2].Title)
}

func TestGetProgramUnknownSlugIsNotFound(t *testing.T) {
	src := &stubSource{programs: []models.Program{{Slug: "mtm", Name: "MTM", Active: true}}}

	_, _, err := newService(src).GetProgram(context.Background(), "no-such-program")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetProgramInactiveIsNotFound(t *testing.T) {
	src := &stubSource{programs: []models.Program{{Slug: "retired", Name: "Retired", Active: false}}}

	_, _, err := newService(src).GetProgram(context.Background(), "retired")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetProgramRejectsMalformedSlug(t *testing.T) {
	_, _, err := newService(&stubSource{}).GetProgram(context.Background(), "Not A Slug!")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestSourceOutageSurfacesAsUnavailable(t *testing.T) {
	src := &stubSource{err: fmt.Errorf("airtable returned 503: %w", sentinel.ErrUnavailable)}

	_, err := newService(src).ListPrograms(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	_, _, err = newService(src).GetProgram(context.Background(), "mtm")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestSourceFailureSurfacesAsInternal(t *testing.T) {
	src := &stubSource{err: errors.New("connection reset")}

	_, err := newService(src).ListPrograms(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

type feedStub struct {
	events []activity.Event
	err    error
}

func (f *feedStub) Emit(_ context.Context, event activity.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func TestGetProgramRecordsViewForMember(t *testing.T) {
	src := &stubSource{programs: []models.Program{{Slug: "mtm", Name: "MTM", Active: true}}}
	feed := &feedStub{}
	svc := New(src,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActivity(feed),
	)

	memberID := id.MemberID(uuid.New())
	ctx := requestcontext.WithMemberID(context.Background(), memberID)

	_, _, err := svc.GetProgram(ctx, "mtm")
	require.NoError(t, err)

	require.Len(t, feed.events, 1)
	event := feed.events[0]
	assert.Equal(t, activity.EventProgramViewed, event.Type)
	assert.Equal(t, memberID, event.MemberID)
	assert.Equal(t, "mtm", event.Subject)
}

func TestGetProgramAnonymousViewIsNotTracked(t *testing.T) {
	src := &stubSource{programs: []models.Program{{Slug: "mtm", Name: "MTM", Active: true}}}
	feed := &feedStub{}
	svc := New(src,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActivity(feed),
	)

	_, _, err := svc.GetProgram(context.Background(), "mtm")
	require.NoError(t, err)
	assert.Empty(t, feed.events)
}

func TestGetProgramViewPublishFailureIsSwallowed(t *testing.T) {
	src := &stubSource{programs: []models.Program{{Slug: "mtm", Name: "MTM", Active: true}}}
	svc := New(src,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActivity(&feedStub{err: errors.New("feed unavailable")}),
	)

	ctx := requestcontext.WithMemberID(context.Background(), id.MemberID(uuid.New()))

	_, _, err := svc.GetProgram(ctx, "mtm")
	require.NoError(t, err)
}
