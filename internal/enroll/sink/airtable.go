// Package sink implements the enrollment submission backends: the Airtable
// Enrollments table (proxy mode), the Postgres mirror, and an in-memory
// sink for development and tests.
package sink

import (
	"context"

	"rxcampus/internal/airtable"
	"rxcampus/internal/enroll/models"
)

const enrollmentsTable = "Enrollments"

// AirtableSink appends submissions to the Enrollments table, the way the
// site's form wrote to the spreadsheet before the mirror existed.
type AirtableSink struct {
	client *airtable.Client
}

func NewAirtable(client *airtable.Client) *AirtableSink {
	return &AirtableSink{client: client}
}

func (s *AirtableSink) Submit(ctx context.Context, req models.EnrollmentRequest) error {
	fields := map[string]any{
		"Name":  req.Name,
		"Email": req.Email,
	}
	if req.ProgramSlug != "" {
		fields["Program Slug"] = req.ProgramSlug
	}
	if req.Message != "" {
		fields["Message"] = req.Message
	}

	_, err := s.client.CreateRecord(ctx, enrollmentsTable, fields)
	return err
}
