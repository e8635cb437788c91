package migration

import (
	"fmt"
	"strings"
)

// TableReport tallies one table's migration pass.
type TableReport struct {
	Table    string
	Category string
	Seen     int
	Migrated int
	Skipped  int
	Failed   int
	Bytes    int64
}

// Report tallies a whole run. DryRun marks counts as hypothetical; Migrated
// then means "would migrate".
type Report struct {
	Tables []TableReport
	DryRun bool
}

// TotalFailed sums failed records across all tables. The CLI exits non-zero
// when it is positive.
func (r *Report) TotalFailed() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Failed
	}
	return total
}

// String renders the run summary for terminal output.
func (r *Report) String() string {
	var b strings.Builder
	verb := "migrated"
	if r.DryRun {
		verb = "would migrate"
	}

	var seen, migrated, skipped, failed int
	var bytes int64
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "%-22s (%s): %d seen, %d %s, %d skipped, %d failed, %s\n",
			t.Table, t.Category, t.Seen, t.Migrated, verb, t.Skipped, t.Failed, formatBytes(t.Bytes))
		seen += t.Seen
		migrated += t.Migrated
		skipped += t.Skipped
		failed += t.Failed
		bytes += t.Bytes
	}
	fmt.Fprintf(&b, "total: %d seen, %d %s, %d skipped, %d failed, %s",
		seen, migrated, verb, skipped, failed, formatBytes(bytes))
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
