package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rxcampus/internal/airtable"
	"rxcampus/internal/migration"
	"rxcampus/internal/supabase"
)

var (
	verifyPlanPath string
	verifyBucket   string
)

// verifyCmd cross-checks a finished migration.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check the migrated mirror against Airtable",
	Long: `Recounts mirror rows against the Airtable tables and probes a sample
of uploaded objects for reachability. Exits non-zero when anything is
off, so it can gate a cutover in CI.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPlanPath, "plan", "", "migration plan file (default: every content-base table)")
	verifyCmd.Flags().StringVar(&verifyBucket, "bucket", "resources", "bucket to probe when no plan file is given")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := loadPlanOrDefault(verifyPlanPath, verifyBucket)
	if err != nil {
		return err
	}

	at, err := airtable.New(cfg.Airtable, airtable.WithLogger(log))
	if err != nil {
		return fmt.Errorf("airtable client: %w", err)
	}
	sb, err := supabase.New(cfg.Supabase, supabase.WithServiceRole(), supabase.WithLogger(log))
	if err != nil {
		return fmt.Errorf("supabase client: %w", err)
	}

	reader, cleanup, err := newMirrorBackend(ctx, sb)
	if err != nil {
		return err
	}
	defer cleanup()

	verifier := migration.NewVerifier(at, reader, sb, plan.Bucket, log)
	report, err := verifier.Verify(ctx, plan)
	if report != nil && len(report.Checks) > 0 {
		fmt.Println(report.String())
	}
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("mirror does not match the source")
	}
	return nil
}
