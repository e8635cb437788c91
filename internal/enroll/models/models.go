// Package models defines the enrollment request record.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentRequest is one submission from the public enrollment form.
// Email is stored normalized; ProgramSlug may be empty when the visitor
// has not picked a program yet.
type EnrollmentRequest struct {
	ID          uuid.UUID
	Name        string
	Email       string
	ProgramSlug string
	Message     string
	SubmittedAt time.Time
}
