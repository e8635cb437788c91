package migration

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

// Schema is the mirror DDL. Every statement is idempotent, so applying it to
// an up-to-date database is a no-op.
//
//go:embed schema.sql
var Schema string

// EnsureSchema applies the mirror DDL over an open connection.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply mirror schema: %w", err)
	}
	return nil
}
