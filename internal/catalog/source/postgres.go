package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"rxcampus/internal/catalog/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

// ObjectURLResolver turns a stored bucket path into a browser-fetchable URL.
// The Supabase storage client satisfies it.
type ObjectURLResolver interface {
	PublicURL(bucket, path string) string
}

// PostgresSource reads the mirror tables written by the migration. Mirror
// rows store bucket paths, never URLs; URLs are resolved on read.
type PostgresSource struct {
	db       *sql.DB
	bucket   string
	resolver ObjectURLResolver
}

func NewPostgres(db *sql.DB, bucket string, resolver ObjectURLResolver) *PostgresSource {
	return &PostgresSource{db: db, bucket: bucket, resolver: resolver}
}

const programColumns = `
	slug, name,
	COALESCE(tagline, ''), COALESCE(description, ''), COALESCE(audience, ''),
	COALESCE(duration, ''), COALESCE(ceus, ''), COALESCE(accreditation, ''),
	COALESCE(hero_image_path, ''), COALESCE(display_order, 0), active
`

func (s *PostgresSource) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+programColumns+` FROM programs`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		p, err := s.scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return programs, nil
}

func (s *PostgresSource) FindProgramBySlug(ctx context.Context, slug id.Slug) (*models.Program, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE slug = $1`, slug.String())
	p, err := s.scanProgram(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find program by slug: %w", err)
	}
	return &p, nil
}

func (s *PostgresSource) ListModules(ctx context.Context, programSlug id.Slug) ([]models.TrainingModule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT program_slug, COALESCE(module_number, 0), title,
		       COALESCE(summary, ''), COALESCE(duration, ''),
		       objectives, COALESCE(resource_path, '')
		FROM training_modules
		WHERE program_slug = $1
		ORDER BY module_number
	`, programSlug.String())
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var modules []models.TrainingModule
	for rows.Next() {
		var m models.TrainingModule
		var resourcePath string
		if err := rows.Scan(
			&m.ProgramSlug, &m.Number, &m.Title,
			&m.Summary, &m.Duration,
			pq.Array(&m.Objectives), &resourcePath,
		); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		if resourcePath != "" {
			m.ResourceURL = s.resolver.PublicURL(s.bucket, resourcePath)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}
	return modules, nil
}

// scanProgram works for both *sql.Row and *sql.Rows.
func (s *PostgresSource) scanProgram(row interface{ Scan(dest ...any) error }) (models.Program, error) {
	var p models.Program
	var heroPath string
	err := row.Scan(
		&p.Slug, &p.Name,
		&p.Tagline, &p.Description, &p.Audience,
		&p.Duration, &p.CEUs, &p.Accreditation,
		&heroPath, &p.DisplayOrder, &p.Active,
	)
	if err != nil {
		return models.Program{}, err
	}
	if heroPath != "" {
		p.HeroImageURL = s.resolver.PublicURL(s.bucket, heroPath)
	}
	return p, nil
}
