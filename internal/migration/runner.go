package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rxcampus/internal/airtable"
	"rxcampus/pkg/platform/circuit"
	pstrings "rxcampus/pkg/platform/strings"
)

// recordWorkers bounds how many records migrate concurrently within one
// table. Attachments inside a record upload sequentially so a partial
// failure leaves a clean prefix rather than holes.
const recordWorkers = 4

const (
	// fetchRetries is how many times an attachment download is retried
	// after transport errors or 5xx responses.
	fetchRetries = 2
	fetchBackoff = 500 * time.Millisecond

	// downloadFailureThreshold is how many records in a row may fail their
	// downloads before the run stops attempting them. A revoked token or a
	// CDN outage fails every record the same way; without the breaker a
	// large base grinds through thousands of doomed requests.
	downloadFailureThreshold = 5
)

// errDownloadsSuspended marks records failed after the breaker opened. They
// were never attempted, so a rerun with --resume picks them up.
var errDownloadsSuspended = errors.New("attachment downloads suspended after repeated failures")

// RecordLister pages through an Airtable table. *airtable.Client satisfies
// it; the indirection keeps runner tests off the real base.
type RecordLister interface {
	ListRecords(ctx context.Context, table string, opts airtable.ListOptions) ([]airtable.Record, error)
}

// Uploader copies one attachment body into the storage bucket.
type Uploader interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
}

// MirrorWriter persists migrated rows into the relational mirror.
type MirrorWriter interface {
	UpsertResources(ctx context.Context, table string, rows []MirrorRow) error
}

// MirrorRow is one migrated resource. JSON tags double as the PostgREST
// column names; the pgx writer lists the same columns explicitly. FilePath
// holds the bucket object path, never a URL, so the serving layer can switch
// between public and signed URLs without touching the rows.
type MirrorRow struct {
	RecordID    string    `json:"record_id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	FileType    string    `json:"file_type"`
	ProgramSlug string    `json:"program_slug"`
	Tags        []string  `json:"tags"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Runner drives one migration pass: for every table in the plan it pages
// through records, copies attachments into the bucket, and upserts mirror
// rows. Reruns are safe; uploads overwrite and mirror writes merge on
// record_id.
type Runner struct {
	records  RecordLister
	uploader Uploader
	writer   MirrorWriter
	state    *State
	logger   *slog.Logger
	breaker  *circuit.Breaker

	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error

	dryRun bool
	resume bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger for progress and failure reporting.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDryRun makes the runner list what it would migrate without touching
// the bucket, the mirror, or the state file.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithResume skips records the state file already marks as migrated.
func WithResume(resume bool) RunnerOption {
	return func(r *Runner) { r.resume = resume }
}

// WithHTTPClient overrides the client used to download attachment bodies.
func WithHTTPClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// withSleep replaces the retry backoff sleep in tests.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) { r.sleep = sleep }
}

// NewRunner builds a Runner over an Airtable record source, a bucket
// uploader, and a mirror writer.
func NewRunner(records RecordLister, uploader Uploader, writer MirrorWriter, state *State, opts ...RunnerOption) (*Runner, error) {
	if records == nil {
		return nil, fmt.Errorf("record lister is required")
	}
	if state == nil {
		return nil, fmt.Errorf("state is required")
	}

	r := &Runner{
		records:    records,
		uploader:   uploader,
		writer:     writer,
		state:      state,
		logger:     slog.Default(),
		breaker:    circuit.New("attachment-downloads", circuit.WithFailureThreshold(downloadFailureThreshold)),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}

	if !r.dryRun {
		if r.uploader == nil {
			return nil, fmt.Errorf("uploader is required")
		}
		if r.writer == nil {
			return nil, fmt.Errorf("mirror writer is required")
		}
	}
	return r, nil
}

// Run migrates every table in the plan. The returned report is valid even
// when err is non-nil; err signals an abort (context cancelled, a table
// listing or mirror write failed), while per-record failures only land in
// the report.
func (r *Runner) Run(ctx context.Context, plan *Plan) (*Report, error) {
	report := &Report{DryRun: r.dryRun}
	for _, spec := range plan.Tables {
		tr, err := r.runTable(ctx, spec)
		if tr != nil {
			report.Tables = append(report.Tables, *tr)
		}
		if err != nil {
			return report, fmt.Errorf("table %q: %w", spec.Table, err)
		}
	}
	return report, nil
}

func (r *Runner) runTable(ctx context.Context, spec TableSpec) (*TableReport, error) {
	records, err := r.records.ListRecords(ctx, spec.Table, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	tr := &TableReport{Table: spec.Table, Category: spec.Category, Seen: len(records)}

	pending := make([]airtable.Record, 0, len(records))
	for _, rec := range records {
		if r.resume && r.state.IsDone(spec.Table, rec.ID.String()) {
			tr.Skipped++
			continue
		}
		pending = append(pending, rec)
	}

	if r.dryRun {
		for _, rec := range pending {
			r.logger.InfoContext(ctx, "would migrate record",
				"table", spec.Table,
				"record_id", rec.ID.String(),
				"title", rec.String(spec.TitleField),
				"attachments", len(rec.Attachments(spec.AttachmentField)))
			tr.Migrated++
		}
		return tr, nil
	}

	var (
		mu   sync.Mutex
		rows []MirrorRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recordWorkers)
	for _, rec := range pending {
		g.Go(func() error {
			row, copied, err := r.migrateRecord(gctx, spec, rec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A cancelled context aborts the whole run; any
				// other failure is tallied so its siblings finish.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				tr.Failed++
				r.logger.ErrorContext(gctx, "record migration failed",
					"table", spec.Table,
					"record_id", rec.ID.String(),
					"error", err)
				return nil
			}
			tr.Bytes += copied
			rows = append(rows, *row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tr, err
	}

	if len(rows) > 0 {
		if err := r.writer.UpsertResources(ctx, spec.MirrorTable, rows); err != nil {
			return tr, fmt.Errorf("write mirror rows: %w", err)
		}
	}
	// Records are marked done only after their mirror rows land, so a crash
	// between upload and write redoes the uploads. They overwrite, so the
	// redo is harmless.
	for _, row := range rows {
		if err := r.state.MarkDone(spec.Table, row.RecordID); err != nil {
			return tr, fmt.Errorf("record state: %w", err)
		}
	}
	tr.Migrated = len(rows)

	r.logger.InfoContext(ctx, "table migrated",
		"table", spec.Table,
		"migrated", tr.Migrated,
		"skipped", tr.Skipped,
		"failed", tr.Failed,
		"bytes", tr.Bytes)
	return tr, nil
}

// migrateRecord copies one record's attachments into the bucket and shapes
// its mirror row. The first attachment becomes the row's primary file;
// records without attachments still mirror, as link-only resources.
func (r *Runner) migrateRecord(ctx context.Context, spec TableSpec, rec airtable.Record) (*MirrorRow, int64, error) {
	row := &MirrorRow{
		RecordID:    rec.ID.String(),
		Category:    spec.Category,
		Title:       rec.String(spec.TitleField),
		Description: rec.String(spec.DescriptionField),
		ProgramSlug: rec.String(spec.ProgramField),
		Tags:        pstrings.DedupeAndTrim(rec.StringSlice(spec.TagsField)),
		UpdatedAt:   rec.CreatedTime,
	}
	if modified, err := time.Parse(time.RFC3339, rec.String("Last Modified")); err == nil {
		row.UpdatedAt = modified
	}

	var copied int64
	for i, att := range rec.Attachments(spec.AttachmentField) {
		if r.breaker.IsOpen() {
			return nil, copied, errDownloadsSuspended
		}
		data, contentType, err := r.fetchAttachment(ctx, att.URL)
		if err != nil {
			if _, change := r.breaker.RecordFailure(); change.Opened {
				r.logger.WarnContext(ctx, "suspending attachment downloads",
					"consecutive_failures", downloadFailureThreshold)
			}
			return nil, copied, fmt.Errorf("fetch %q: %w", att.Filename, err)
		}
		r.breaker.RecordSuccess()
		if contentType == "" {
			contentType = att.Type
		}

		objectPath := path.Join(spec.Category, rec.ID.String(), att.Filename)
		if err := r.uploader.Upload(ctx, objectPath, data, contentType); err != nil {
			return nil, copied, fmt.Errorf("upload %q: %w", objectPath, err)
		}
		copied += int64(len(data))

		if i == 0 {
			row.FilePath = objectPath
			row.FileName = att.Filename
			row.FileSize = int64(len(data))
			row.FileType = contentType
		}
	}
	return row, copied, nil
}

// fetchAttachment downloads one attachment body. Airtable's attachment URLs
// are short-lived signed links served from a CDN, so transient 5xx responses
// get a couple of retries; 4xx means the link expired and retrying cannot
// help.
func (r *Runner) fetchAttachment(ctx context.Context, rawURL string) ([]byte, string, error) {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		if attempt > 0 {
			wait := fetchBackoff * time.Duration(1<<(attempt-1))
			if err := r.sleep(ctx, wait); err != nil {
				return nil, "", err
			}
		}

		data, contentType, retryable, err := r.fetchOnce(ctx, rawURL)
		if err == nil {
			return data, contentType, nil
		}
		if !retryable {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("download failed after %d attempts: %w", fetchRetries+1, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) fetchOnce(ctx context.Context, rawURL string) (data []byte, contentType string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", false, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", true, fmt.Errorf("read body: %w", err)
		}
		return body, resp.Header.Get("Content-Type"), false, nil
	case resp.StatusCode >= 500:
		return nil, "", true, fmt.Errorf("download returned status %d", resp.StatusCode)
	default:
		return nil, "", false, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
}
