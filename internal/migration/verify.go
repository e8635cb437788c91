package migration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rxcampus/internal/airtable"
)

// probeSample is how many object URLs per table get a reachability check.
const probeSample = 5

// MirrorReader reads back what a writer wrote. Both writers satisfy it.
type MirrorReader interface {
	CountResources(ctx context.Context, table, category string) (int, error)
	SampleFilePaths(ctx context.Context, table, category string, limit int) ([]string, error)
}

// ObjectURLResolver turns a stored bucket path into a fetchable URL. The
// Supabase storage client satisfies it.
type ObjectURLResolver interface {
	PublicURL(bucket, path string) string
}

// TableCheck is one table's verification result.
type TableCheck struct {
	Table           string
	Category        string
	SourceCount     int
	MirrorCount     int
	ProbedOK        int
	ProbedFailed    int
	FirstFailedPath string
}

// CountsMatch reports whether the mirror holds exactly what the source does.
func (c TableCheck) CountsMatch() bool { return c.SourceCount == c.MirrorCount }

// VerifyReport collects every table's check.
type VerifyReport struct {
	Checks []TableCheck
}

// OK reports whether every count matched and every probe succeeded.
func (r *VerifyReport) OK() bool {
	for _, c := range r.Checks {
		if !c.CountsMatch() || c.ProbedFailed > 0 {
			return false
		}
	}
	return true
}

// String renders the verification summary for terminal output.
func (r *VerifyReport) String() string {
	var b strings.Builder
	for _, c := range r.Checks {
		status := "ok"
		if !c.CountsMatch() {
			status = "count mismatch"
		} else if c.ProbedFailed > 0 {
			status = "probe failed"
		}
		fmt.Fprintf(&b, "%-22s (%s): source %d, mirror %d, probed %d ok / %d failed [%s]\n",
			c.Table, c.Category, c.SourceCount, c.MirrorCount, c.ProbedOK, c.ProbedFailed, status)
		if c.FirstFailedPath != "" {
			fmt.Fprintf(&b, "  first failing object: %s\n", c.FirstFailedPath)
		}
	}
	if r.OK() {
		b.WriteString("verification passed")
	} else {
		b.WriteString("verification FAILED")
	}
	return b.String()
}

// Verifier cross-checks a finished migration: row counts against the
// Airtable source, plus a reachability probe on a sample of uploaded
// objects.
type Verifier struct {
	records    RecordLister
	reader     MirrorReader
	resolver   ObjectURLResolver
	bucket     string
	logger     *slog.Logger
	httpClient *http.Client
}

func NewVerifier(records RecordLister, reader MirrorReader, resolver ObjectURLResolver, bucket string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		records:    records,
		reader:     reader,
		resolver:   resolver,
		bucket:     bucket,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Verify checks every table in the plan. err signals an abort; a failing
// check only lands in the report.
func (v *Verifier) Verify(ctx context.Context, plan *Plan) (*VerifyReport, error) {
	report := &VerifyReport{}
	for _, spec := range plan.Tables {
		check, err := v.verifyTable(ctx, spec)
		if err != nil {
			return report, fmt.Errorf("table %q: %w", spec.Table, err)
		}
		report.Checks = append(report.Checks, *check)
	}
	return report, nil
}

func (v *Verifier) verifyTable(ctx context.Context, spec TableSpec) (*TableCheck, error) {
	check := &TableCheck{Table: spec.Table, Category: spec.Category}

	// Only one cheap field is requested; the count is all that matters here.
	records, err := v.records.ListRecords(ctx, spec.Table, airtable.ListOptions{Fields: []string{spec.TitleField}})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	check.SourceCount = len(records)

	check.MirrorCount, err = v.reader.CountResources(ctx, spec.MirrorTable, spec.Category)
	if err != nil {
		return nil, fmt.Errorf("count mirror rows: %w", err)
	}

	paths, err := v.reader.SampleFilePaths(ctx, spec.MirrorTable, spec.Category, probeSample)
	if err != nil {
		return nil, fmt.Errorf("sample file paths: %w", err)
	}
	for _, objectPath := range paths {
		url := v.resolver.PublicURL(v.bucket, objectPath)
		if err := v.probe(ctx, url); err != nil {
			check.ProbedFailed++
			if check.FirstFailedPath == "" {
				check.FirstFailedPath = objectPath
			}
			v.logger.WarnContext(ctx, "object probe failed",
				"table", spec.Table,
				"path", objectPath,
				"error", err)
			continue
		}
		check.ProbedOK++
	}
	return check, nil
}

func (v *Verifier) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
