package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rxcampus/internal/activity"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// Service defines the activity reads the handler needs.
type Service interface {
	Recent(ctx context.Context, memberID id.MemberID, limit int) ([]activity.Entry, error)
}

// Handler serves the dashboard's recent activity feed. Routes registered here
// assume the auth middleware already ran.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts activity endpoints on an authenticated router group.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/activity", h.HandleRecentActivity)
}

// HandleRecentActivity handles GET /me/activity?limit=.
func (h *Handler) HandleRecentActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID := requestcontext.MemberID(ctx)
	if memberID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.Recent(ctx, memberID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load activity feed",
			"request_id", requestcontext.RequestID(ctx),
			"member_id", memberID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feedResponse{Items: entryViews(entries)})
}

type feedResponse struct {
	Items []entryView `json:"items"`
}

type entryView struct {
	EventType  string            `json:"event_type"`
	Subject    string            `json:"subject,omitempty"`
	Device     string            `json:"device"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt string            `json:"occurred_at"`
}

func entryViews(entries []activity.Entry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryView{
			EventType:  string(entry.Type),
			Subject:    entry.Subject,
			Device:     activity.ParseUserAgent(entry.UserAgent),
			Metadata:   entry.Metadata,
			OccurredAt: entry.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
