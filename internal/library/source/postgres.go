package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
)

// ObjectURLResolver turns a stored bucket path into a browser-fetchable URL.
// The Supabase storage client satisfies it.
type ObjectURLResolver interface {
	PublicURL(bucket, path string) string
}

// PostgresSource reads the resources mirror table written by the migration.
type PostgresSource struct {
	db       *sql.DB
	bucket   string
	resolver ObjectURLResolver
}

func NewPostgres(db *sql.DB, bucket string, resolver ObjectURLResolver) *PostgresSource {
	return &PostgresSource{db: db, bucket: bucket, resolver: resolver}
}

func (s *PostgresSource) FetchCategory(ctx context.Context, cat id.Category) ([]models.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, title,
		       COALESCE(description, ''), COALESCE(file_path, ''),
		       COALESCE(file_name, ''), COALESCE(file_size, 0),
		       COALESCE(file_type, ''), COALESCE(program_slug, ''),
		       tags, updated_at
		FROM resources
		WHERE category = $1
	`, cat.String())
	if err != nil {
		return nil, fmt.Errorf("fetch category %q: %w", cat, err)
	}
	defer rows.Close()

	var items []models.Resource
	for rows.Next() {
		item := models.Resource{Category: cat}
		var filePath string
		if err := rows.Scan(
			&item.ID, &item.Title,
			&item.Description, &filePath,
			&item.FileName, &item.FileSize,
			&item.FileType, &item.ProgramSlug,
			pq.Array(&item.Tags), &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		if filePath != "" {
			item.FileURL = s.resolver.PublicURL(s.bucket, filePath)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return items, nil
}
