package handler

import (
	"strings"

	dErrors "rxcampus/pkg/domain-errors"
)

// EnrollmentRequest is the POST /api/enrollment-requests body.
type EnrollmentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProgramSlug string `json:"program_slug"`
	Message     string `json:"message"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EnrollmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	return nil
}
