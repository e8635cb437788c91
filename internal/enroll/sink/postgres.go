package sink

import (
	"context"
	"database/sql"
	"fmt"

	"rxcampus/internal/enroll/models"
)

// PostgresSink stores submissions in the enrollment_requests mirror table.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Submit(ctx context.Context, req models.EnrollmentRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollment_requests (id, name, email, program_slug, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, req.ID, req.Name, req.Email, req.ProgramSlug, req.Message, req.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert enrollment request: %w", err)
	}
	return nil
}
