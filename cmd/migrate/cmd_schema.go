package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"rxcampus/internal/migration"
)

// schemaCmd creates the mirror tables.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Apply the relational mirror schema",
	Long: `Creates the mirror tables (programs, training modules, resources,
bookmarks, member activity, enrollment requests) if they do not exist.
Safe to rerun.

Requires DATABASE_URL.`,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := migration.EnsureSchema(ctx, db); err != nil {
		return err
	}

	log.Info("mirror schema applied")
	return nil
}
