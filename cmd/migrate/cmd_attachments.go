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
	planPath  string
	bucket    string
	statePath string
	dryRun    bool
	resume    bool
	useS3     bool
)

// attachmentsCmd runs the actual content move.
var attachmentsCmd = &cobra.Command{
	Use:   "attachments",
	Short: "Copy Airtable attachments into Storage and fill the mirror",
	Long: `Pages through every table in the plan, downloads each record's
attachments, uploads them to <category>/<recordID>/<filename> in the
bucket, and upserts one mirror row per record.

Progress lands in a state file after each record's mirror row is
written; an interrupted run picks up with --resume. Failed records are
reported at the end and the command exits non-zero, leaving the state
file ready for a retry.

Requires AIRTABLE_TOKEN, AIRTABLE_BASE_ID, SUPABASE_URL and
SUPABASE_SERVICE_KEY. With DATABASE_URL set, mirror rows bulk-load over
a direct connection; otherwise they go through PostgREST.`,
	RunE: runAttachments,
}

func init() {
	attachmentsCmd.Flags().StringVar(&planPath, "plan", "", "migration plan file (default: every content-base table)")
	attachmentsCmd.Flags().StringVar(&bucket, "bucket", "resources", "target bucket when no plan file is given")
	attachmentsCmd.Flags().StringVar(&statePath, "state", ".migrate-state.json", "state file recording completed records")
	attachmentsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would migrate without copying anything")
	attachmentsCmd.Flags().BoolVar(&resume, "resume", false, "skip records the state file marks completed")
	attachmentsCmd.Flags().BoolVar(&useS3, "s3", false, "upload over the S3-interop endpoint instead of the Storage REST API")
}

func runAttachments(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := loadPlanOrDefault(planPath, bucket)
	if err != nil {
		return err
	}
	state, err := migration.LoadState(statePath)
	if err != nil {
		return err
	}

	at, err := airtable.New(cfg.Airtable, airtable.WithLogger(log))
	if err != nil {
		return fmt.Errorf("airtable client: %w", err)
	}

	var (
		uploader migration.Uploader
		writer   migration.MirrorWriter
		cleanup  = func() {}
	)
	if !dryRun {
		sb, err := supabase.New(cfg.Supabase, supabase.WithServiceRole(), supabase.WithLogger(log))
		if err != nil {
			return fmt.Errorf("supabase client: %w", err)
		}
		if err := sb.EnsureBucket(ctx, plan.Bucket, plan.PublicBucket); err != nil {
			return fmt.Errorf("ensure bucket %q: %w", plan.Bucket, err)
		}

		uploader = migration.NewStorageUploader(sb, plan.Bucket)
		if useS3 {
			s3up, err := migration.NewS3Uploader(ctx, cfg.Storage, plan.Bucket)
			if err != nil {
				return fmt.Errorf("s3 uploader: %w", err)
			}
			uploader = s3up
		}

		writer, cleanup, err = newMirrorBackend(ctx, sb)
		if err != nil {
			return err
		}
	}
	defer cleanup()

	runner, err := migration.NewRunner(at, uploader, writer, state,
		migration.WithRunnerLogger(log),
		migration.WithDryRun(dryRun),
		migration.WithResume(resume),
	)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, plan)
	if report != nil && len(report.Tables) > 0 {
		fmt.Println(report.String())
	}
	if err != nil {
		return err
	}
	if n := report.TotalFailed(); n > 0 {
		return fmt.Errorf("%d records failed to migrate; rerun with --resume once the cause is fixed", n)
	}
	return nil
}
