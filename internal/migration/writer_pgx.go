package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// mirrorColumns is the column order shared by CopyFrom and the upsert.
var mirrorColumns = []string{
	"record_id", "category", "title", "description",
	"file_path", "file_name", "file_size", "file_type",
	"program_slug", "tags", "updated_at",
}

// PgxWriter bulk-loads mirror rows over a direct Postgres connection.
// Rows stream through CopyFrom into a temp table, then merge into the
// mirror in one statement, so a rerun updates rather than duplicates.
type PgxWriter struct {
	pool *pgxpool.Pool
}

func NewPgxWriter(pool *pgxpool.Pool) *PgxWriter {
	return &PgxWriter{pool: pool}
}

func (w *PgxWriter) UpsertResources(ctx context.Context, table string, rows []MirrorRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Table names come from the validated plan, never from request input.
	staging := table + "_staging"
	if _, err := tx.Exec(ctx, fmt.Sprintf(
		`CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP`, staging, table,
	)); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{staging}, mirrorColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{
				r.RecordID, r.Category, r.Title, r.Description,
				r.FilePath, r.FileName, r.FileSize, r.FileType,
				r.ProgramSlug, r.Tags, r.UpdatedAt,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (record_id, category, title, description,
			file_path, file_name, file_size, file_type,
			program_slug, tags, updated_at)
		SELECT record_id, category, title, description,
			file_path, file_name, file_size, file_type,
			program_slug, tags, updated_at
		FROM %[2]s
		ON CONFLICT (record_id) DO UPDATE SET
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			file_path = EXCLUDED.file_path,
			file_name = EXCLUDED.file_name,
			file_size = EXCLUDED.file_size,
			file_type = EXCLUDED.file_type,
			program_slug = EXCLUDED.program_slug,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at
	`, table, staging)); err != nil {
		return fmt.Errorf("merge rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountResources reports how many mirror rows a category holds.
func (w *PgxWriter) CountResources(ctx context.Context, table, category string) (int, error) {
	var count int
	err := w.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE category = $1`, table,
	), category).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return count, nil
}

// SampleFilePaths returns up to limit object paths from a category's rows,
// skipping link-only rows without files.
func (w *PgxWriter) SampleFilePaths(ctx context.Context, table, category string, limit int) ([]string, error) {
	rows, err := w.pool.Query(ctx, fmt.Sprintf(`
		SELECT file_path FROM %s
		WHERE category = $1 AND file_path <> ''
		ORDER BY record_id
		LIMIT $2
	`, table), category, limit)
	if err != nil {
		return nil, fmt.Errorf("sample file paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
