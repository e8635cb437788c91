package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"rxcampus/internal/migration"
	"rxcampus/internal/supabase"
)

// mirrorBackend is satisfied by both mirror implementations; attachments
// writes through it and verify reads back through it.
type mirrorBackend interface {
	migration.MirrorWriter
	migration.MirrorReader
}

// loadPlanOrDefault reads a plan file, or builds the default plan covering
// every content-base table when no file is given.
func loadPlanOrDefault(path, bucket string) (*migration.Plan, error) {
	if path == "" {
		return migration.DefaultPlan(bucket), nil
	}
	return migration.LoadPlan(path)
}

// newMirrorBackend prefers the direct pgx path when DATABASE_URL is set and
// falls back to PostgREST otherwise. The returned func releases the
// connection pool, if any.
func newMirrorBackend(ctx context.Context, sb *supabase.Client) (mirrorBackend, func(), error) {
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return migration.NewPgxWriter(pool), pool.Close, nil
	}
	return migration.NewPostgRESTWriter(sb), func() {}, nil
}
