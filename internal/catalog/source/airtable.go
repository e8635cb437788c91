// Package source implements the catalog Source interface over the three
// content backends: the Airtable base (proxy mode), the Postgres mirror, and
// a seeded in-memory set for development and tests.
package source

import (
	"context"
	"strings"

	"rxcampus/internal/airtable"
	"rxcampus/internal/catalog/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

const (
	programsTable = "Programs"
	modulesTable  = "Training Modules"
)

// AirtableSource reads the catalog straight from the Airtable base, the way
// the site ran before the mirror existed.
type AirtableSource struct {
	client *airtable.Client
}

func NewAirtable(client *airtable.Client) *AirtableSource {
	return &AirtableSource{client: client}
}

func (s *AirtableSource) ListPrograms(ctx context.Context) ([]models.Program, error) {
	records, err := s.client.ListRecords(ctx, programsTable, airtable.ListOptions{
		Sort: []airtable.SortField{{Field: "Order", Direction: "asc"}},
	})
	if err != nil {
		return nil, err
	}

	programs := make([]models.Program, 0, len(records))
	for _, rec := range records {
		programs = append(programs, programFromRecord(rec))
	}
	return programs, nil
}

func (s *AirtableSource) FindProgramBySlug(ctx context.Context, slug id.Slug) (*models.Program, error) {
	// Slugs are restricted to [a-z0-9-], safe to interpolate into a formula.
	records, err := s.client.ListRecords(ctx, programsTable, airtable.ListOptions{
		FilterByFormula: `{Slug} = "` + slug.String() + `"`,
		MaxRecords:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, sentinel.ErrNotFound
	}

	program := programFromRecord(records[0])
	return &program, nil
}

func (s *AirtableSource) ListModules(ctx context.Context, programSlug id.Slug) ([]models.TrainingModule, error) {
	records, err := s.client.ListRecords(ctx, modulesTable, airtable.ListOptions{
		FilterByFormula: `{Program Slug} = "` + programSlug.String() + `"`,
		Sort:            []airtable.SortField{{Field: "Module Number", Direction: "asc"}},
	})
	if err != nil {
		return nil, err
	}

	modules := make([]models.TrainingModule, 0, len(records))
	for _, rec := range records {
		modules = append(modules, moduleFromRecord(rec))
	}
	return modules, nil
}

func programFromRecord(rec airtable.Record) models.Program {
	p := models.Program{
		Slug:          id.Slug(rec.String("Slug")),
		Name:          rec.String("Name"),
		Tagline:       rec.String("Tagline"),
		Description:   rec.String("Description"),
		Audience:      rec.String("Audience"),
		Duration:      rec.String("Duration"),
		CEUs:          rec.String("CEUs"),
		Accreditation: rec.String("Accreditation"),
		DisplayOrder:  rec.Int("Order"),
		Active:        rec.Bool("Active"),
	}
	if p.Slug == "" {
		p.Slug = id.Slugify(p.Name)
	}
	if atts := rec.Attachments("Hero Image"); len(atts) > 0 {
		p.HeroImageURL = atts[0].URL
	}
	return p
}

func moduleFromRecord(rec airtable.Record) models.TrainingModule {
	m := models.TrainingModule{
		ProgramSlug: id.Slug(rec.String("Program Slug")),
		Number:      rec.Int("Module Number"),
		Title:       rec.String("Title"),
		Summary:     rec.String("Summary"),
		Duration:    rec.String("Duration"),
		Objectives:  rec.StringSlice("Objectives"),
	}
	// Objectives is a multi-select in some bases and long text in others.
	if len(m.Objectives) == 0 {
		m.Objectives = splitLines(rec.String("Objectives"))
	}
	if atts := rec.Attachments("Resource"); len(atts) > 0 {
		m.ResourceURL = atts[0].URL
	}
	return m
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
