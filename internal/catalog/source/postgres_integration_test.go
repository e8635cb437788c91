//go:build integration

package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"rxcampus/internal/catalog/source"
	"rxcampus/pkg/platform/sentinel"
	"rxcampus/pkg/testutil/containers"
)

type fakeResolver struct{}

func (fakeResolver) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

type PostgresSourceSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	source   *source.PostgresSource
}

func TestPostgresSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSourceSuite))
}

func (s *PostgresSourceSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.source = source.NewPostgres(s.postgres.DB, "resources", fakeResolver{})
}

func (s *PostgresSourceSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "training_modules", "programs")
	s.Require().NoError(err)
}

func (s *PostgresSourceSuite) seedProgram(recordID, slug, name string, order int, active bool) {
	_, err := s.postgres.DB.ExecContext(context.Background(), `
		INSERT INTO programs (record_id, slug, name, tagline, hero_image_path, display_order, active)
		VALUES ($1, $2, $3, 'tagline', 'hero/'||$2||'.png', $4, $5)
	`, recordID, slug, name, order, active)
	s.Require().NoError(err)
}

func (s *PostgresSourceSuite) TestListProgramsReadsMirrorRows() {
	ctx := context.Background()
	s.seedProgram("recAAAAAAAAAAAA01", "mtm-certification", "MTM Certification", 1, true)
	s.seedProgram("recAAAAAAAAAAAA02", "immunization-delivery", "Immunization", 2, false)

	programs, err := s.source.ListPrograms(ctx)
	s.Require().NoError(err)
	s.Require().Len(programs, 2)

	bySlug := map[string]bool{}
	for _, p := range programs {
		bySlug[p.Slug.String()] = p.Active
	}
	s.True(bySlug["mtm-certification"])
	s.False(bySlug["immunization-delivery"])
}

func (s *PostgresSourceSuite) TestFindProgramResolvesHeroURL() {
	ctx := context.Background()
	s.seedProgram("recAAAAAAAAAAAA01", "mtm-certification", "MTM Certification", 1, true)

	program, err := s.source.FindProgramBySlug(ctx, "mtm-certification")
	s.Require().NoError(err)
	s.Equal("https://cdn.test/resources/hero/mtm-certification.png", program.HeroImageURL)
}

func (s *PostgresSourceSuite) TestFindProgramMissing() {
	_, err := s.source.FindProgramBySlug(context.Background(), "absent")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresSourceSuite) TestListModulesOrdersAndResolves() {
	ctx := context.Background()
	s.seedProgram("recAAAAAAAAAAAA01", "mtm-certification", "MTM Certification", 1, true)

	_, err := s.postgres.DB.ExecContext(ctx, `
		INSERT INTO training_modules (record_id, program_slug, module_number, title, objectives, resource_path)
		VALUES
			('recBBBBBBBBBBBB02', 'mtm-certification', 2, 'CMR', ARRAY['Conduct a CMR'], NULL),
			('recBBBBBBBBBBBB01', 'mtm-certification', 1, 'Foundations', ARRAY['Describe MTM elements','Identify patients'], 'modules/workbook.pdf')
	`)
	s.Require().NoError(err)

	modules, err := s.source.ListModules(ctx, "mtm-certification")
	s.Require().NoError(err)
	s.Require().Len(modules, 2)

	s.Equal("Foundations", modules[0].Title)
	s.Equal([]string{"Describe MTM elements", "Identify patients"}, modules[0].Objectives)
	s.Equal("https://cdn.test/resources/modules/workbook.pdf", modules[0].ResourceURL)
	s.Equal("CMR", modules[1].Title)
	s.Empty(modules[1].ResourceURL)
}
