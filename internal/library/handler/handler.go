package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rxcampus/contracts/library"
	"rxcampus/internal/library/models"
	"rxcampus/internal/library/service"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// Service defines the library operations the handler needs.
type Service interface {
	Browse(ctx context.Context, f service.Filter) ([]models.Resource, error)
	Download(ctx context.Context, rawResourceID string) (*models.Resource, error)
	PurgeCache(ctx context.Context) error
}

// Handler wires the public resource library endpoint to the library service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts public library endpoints on the router. The cache purge
// endpoint is admin-only and mounted separately by the server router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/resource-library", h.HandleLibrary)
	r.Get("/api/resource-library/{resourceID}/download", h.HandleDownload)
}

// HandleLibrary handles GET /api/resource-library. Optional cat and q query
// parameters narrow the listing; both combine.
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	items, err := h.service.Browse(ctx, service.Filter{
		Category: query.Get("cat"),
		Query:    query.Get("q"),
	})
	if err != nil {
		if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "failed to browse resource library",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Items:      itemViews(items),
		Categories: categoryNames(),
	})
}

// HandleDownload handles GET /api/resource-library/{resourceID}/download,
// redirecting to the resource's stored file.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resource, err := h.service.Download(ctx, chi.URLParam(r, "resourceID"))
	if err != nil {
		if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "failed to resolve resource download",
				"request_id", requestcontext.RequestID(ctx),
				"resource_id", chi.URLParam(r, "resourceID"),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	http.Redirect(w, r, resource.FileURL, http.StatusFound)
}

// HandleCachePurge handles POST /internal/cache/purge. The next library
// request rebuilds the snapshot from the content source.
func (h *Handler) HandleCachePurge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.PurgeCache(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to purge library cache",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, purgeResponse{Status: "purged"})
}

type listResponse struct {
	Items      []library.ResourceItem `json:"items"`
	Categories []string               `json:"categories"`
}

type purgeResponse struct {
	Status string `json:"status"`
}

func itemViews(items []models.Resource) []library.ResourceItem {
	out := make([]library.ResourceItem, 0, len(items))
	for _, item := range items {
		out = append(out, itemView(item))
	}
	return out
}

func itemView(item models.Resource) library.ResourceItem {
	view := library.ResourceItem{
		ID:          item.ID,
		Category:    item.Category.String(),
		Title:       item.Title,
		Description: item.Description,
		FileURL:     item.FileURL,
		FileName:    item.FileName,
		FileSize:    item.FileSize,
		FileType:    item.FileType,
		ProgramSlug: item.ProgramSlug.String(),
		Tags:        item.Tags,
	}
	if !item.UpdatedAt.IsZero() {
		view.UpdatedAt = item.UpdatedAt.UTC().Format("2006-01-02")
	}
	return view
}

func categoryNames() []string {
	cats := id.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.String())
	}
	return out
}
