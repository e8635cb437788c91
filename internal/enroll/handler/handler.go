// Package handler exposes the enrollment form endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rxcampus/internal/enroll/service"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// Service defines the enrollment operation the handler needs.
type Service interface {
	Submit(ctx context.Context, input service.SubmitInput) error
}

// Handler wires the enrollment form endpoint to the enrollment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/enrollment-requests", h.HandleSubmit)
}

type submitResponse struct {
	Status string `json:"status"`
}

// HandleSubmit handles POST /api/enrollment-requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[EnrollmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	err := h.service.Submit(ctx, service.SubmitInput{
		Name:        req.Name,
		Email:       req.Email,
		ProgramSlug: req.ProgramSlug,
		Message:     req.Message,
	})
	if err != nil {
		switch dErrors.CodeOf(err) {
		case dErrors.CodeInternal, dErrors.CodeUnavailable:
			h.logger.ErrorContext(ctx, "failed to accept enrollment request",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, submitResponse{Status: "received"})
}
