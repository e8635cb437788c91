package migration

import (
	"context"
	"fmt"

	"rxcampus/internal/supabase"
)

// PostgRESTWriter upserts mirror rows through the Supabase REST API. It is
// the fallback when no direct database DSN is configured; merge-duplicates
// resolution gives the same rerun-safety as the pgx path.
type PostgRESTWriter struct {
	client *supabase.Client
}

func NewPostgRESTWriter(client *supabase.Client) *PostgRESTWriter {
	return &PostgRESTWriter{client: client}
}

func (w *PostgRESTWriter) UpsertResources(ctx context.Context, table string, rows []MirrorRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := w.client.Upsert(ctx, table, "record_id", rows); err != nil {
		return fmt.Errorf("upsert mirror rows: %w", err)
	}
	return nil
}

// CountResources counts a category's mirror rows. The client has no bare
// count call, so record IDs are fetched and counted.
func (w *PostgRESTWriter) CountResources(ctx context.Context, table, category string) (int, error) {
	var rows []struct {
		RecordID string `json:"record_id"`
	}
	err := w.client.Select(ctx, table, supabase.Query{
		Select:  "record_id",
		Filters: []supabase.Filter{supabase.Eq("category", category)},
	}, &rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SampleFilePaths returns up to limit object paths from a category's rows,
// skipping link-only rows without files.
func (w *PostgRESTWriter) SampleFilePaths(ctx context.Context, table, category string, limit int) ([]string, error) {
	var rows []struct {
		FilePath string `json:"file_path"`
	}
	err := w.client.Select(ctx, table, supabase.Query{
		Select: "file_path",
		Filters: []supabase.Filter{
			supabase.Eq("category", category),
			supabase.Neq("file_path", ""),
		},
		Order: "record_id.asc",
		Limit: limit,
	}, &rows)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rows))
	for _, r := range rows {
		paths = append(paths, r.FilePath)
	}
	return paths, nil
}
