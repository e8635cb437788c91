// Package source implements the library Source interface over the Airtable
// base, the Postgres mirror, and a seeded in-memory set.
package source

import (
	"context"
	"fmt"
	"time"

	"rxcampus/internal/airtable"
	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
	pstrings "rxcampus/pkg/platform/strings"
)

// categoryTables maps each category to its table in the content base. One
// table per category mirrors how the spreadsheet was organized.
var categoryTables = map[id.Category]string{
	id.CategoryProtocolManuals:    "Protocol Manuals",
	id.CategoryDocumentationForms: "Documentation Forms",
	id.CategoryAdditionalResource: "Additional Resources",
	id.CategoryPatientHandouts:    "Patient Handouts",
	id.CategoryClinicalGuidelines: "Clinical Guidelines",
	id.CategoryMedicalBilling:     "Medical Billing",
}

// TableFor returns the content-base table backing a category. The migration
// builds its default plan from the same mapping the live proxy reads with.
func TableFor(cat id.Category) (string, bool) {
	table, ok := categoryTables[cat]
	return table, ok
}

// AirtableSource reads library rows straight from the Airtable base. File
// URLs are Airtable's own attachment URLs in this mode.
type AirtableSource struct {
	client *airtable.Client
}

func NewAirtable(client *airtable.Client) *AirtableSource {
	return &AirtableSource{client: client}
}

func (s *AirtableSource) FetchCategory(ctx context.Context, cat id.Category) ([]models.Resource, error) {
	table, ok := categoryTables[cat]
	if !ok {
		return nil, fmt.Errorf("no table mapped for category %q", cat)
	}

	records, err := s.client.ListRecords(ctx, table, airtable.ListOptions{})
	if err != nil {
		return nil, err
	}

	items := make([]models.Resource, 0, len(records))
	for _, rec := range records {
		items = append(items, resourceFromRecord(rec, cat))
	}
	return items, nil
}

func resourceFromRecord(rec airtable.Record, cat id.Category) models.Resource {
	item := models.Resource{
		ID:          rec.ID.String(),
		Category:    cat,
		Title:       rec.String("Title"),
		Description: rec.String("Description"),
		ProgramSlug: id.Slug(rec.String("Program Slug")),
		Tags:        pstrings.DedupeAndTrim(rec.StringSlice("Tags")),
		UpdatedAt:   rec.CreatedTime,
	}
	if modified, err := time.Parse(time.RFC3339, rec.String("Last Modified")); err == nil {
		item.UpdatedAt = modified
	}
	if atts := rec.Attachments("File"); len(atts) > 0 {
		att := atts[0]
		item.FileURL = att.URL
		item.FileName = att.Filename
		item.FileSize = att.Size
		item.FileType = att.Type
	}
	return item
}
