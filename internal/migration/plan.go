// Package migration moves Airtable attachments into Supabase Storage and
// fills the relational mirror tables the serving path reads. The move is
// idempotent per record: uploads overwrite, mirror writes upsert, and a
// state file lets an interrupted run resume where it stopped.
package migration

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"rxcampus/internal/library/source"
	id "rxcampus/pkg/domain"
)

// Plan describes one migration run: the target bucket and the Airtable
// tables to move, one spec per resource category.
type Plan struct {
	// Bucket is the Supabase Storage bucket receiving the files.
	Bucket string `yaml:"bucket"`
	// PublicBucket creates the bucket world-readable so mirror rows can be
	// served with stable public URLs.
	PublicBucket bool        `yaml:"public_bucket"`
	Tables       []TableSpec `yaml:"tables"`
}

// TableSpec maps one Airtable table onto a mirror table. Field names default
// to the content base's conventions; only Table and Category are mandatory.
type TableSpec struct {
	// Table is the Airtable table name, e.g. "Protocol Manuals".
	Table string `yaml:"table"`
	// Category is the library category slug the table's rows belong to.
	Category string `yaml:"category"`

	AttachmentField  string `yaml:"attachment_field"`
	TitleField       string `yaml:"title_field"`
	DescriptionField string `yaml:"description_field"`
	ProgramField     string `yaml:"program_field"`
	TagsField        string `yaml:"tags_field"`

	// MirrorTable is the relational table receiving the rows.
	MirrorTable string `yaml:"mirror_table"`
}

// DefaultPlan covers every content-base table with the conventional field
// names, for runs that do not need a custom plan file.
func DefaultPlan(bucket string) *Plan {
	plan := &Plan{Bucket: bucket, PublicBucket: true}
	for _, cat := range id.Categories() {
		table, ok := source.TableFor(cat)
		if !ok {
			continue
		}
		spec := TableSpec{Table: table, Category: string(cat)}
		spec.applyDefaults()
		plan.Tables = append(plan.Tables, spec)
	}
	return plan
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := plan.validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return &plan, nil
}

func (p *Plan) validate() error {
	if p.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if len(p.Tables) == 0 {
		return fmt.Errorf("at least one table is required")
	}

	for i := range p.Tables {
		spec := &p.Tables[i]
		if spec.Table == "" {
			return fmt.Errorf("tables[%d]: table is required", i)
		}
		if _, err := id.ParseCategory(spec.Category); err != nil {
			return fmt.Errorf("tables[%d] (%s): %w", i, spec.Table, err)
		}
		spec.applyDefaults()
		// Mirror table names end up in SQL identifiers, so only plain
		// lower_snake names are accepted.
		if !identPattern.MatchString(spec.MirrorTable) {
			return fmt.Errorf("tables[%d] (%s): mirror table %q is not a valid identifier", i, spec.Table, spec.MirrorTable)
		}
	}
	return nil
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// applyDefaults fills field names with the content base's conventions.
func (s *TableSpec) applyDefaults() {
	if s.AttachmentField == "" {
		s.AttachmentField = "File"
	}
	if s.TitleField == "" {
		s.TitleField = "Title"
	}
	if s.DescriptionField == "" {
		s.DescriptionField = "Description"
	}
	if s.ProgramField == "" {
		s.ProgramField = "Program Slug"
	}
	if s.TagsField == "" {
		s.TagsField = "Tags"
	}
	if s.MirrorTable == "" {
		s.MirrorTable = "resources"
	}
}
