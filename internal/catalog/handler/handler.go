package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rxcampus/contracts/library"
	"rxcampus/internal/catalog/models"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// Service defines the catalog operations the handler needs.
type Service interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, rawSlug string) (*models.Program, []models.TrainingModule, error)
}

// Handler wires the public clinical programs endpoint to the catalog service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/clinical-programs", h.HandlePrograms)
}

// HandlePrograms handles GET /api/clinical-programs. Without a programSlug
// query it lists program summaries; with one it returns that program and its
// modules, or 404.
func (h *Handler) HandlePrograms(w http.ResponseWriter, r *http.Request) {
	if rawSlug := r.URL.Query().Get("programSlug"); rawSlug != "" {
		h.renderProgramDetail(w, r, rawSlug)
		return
	}
	h.renderProgramList(w, r)
}

func (h *Handler) renderProgramList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programs, err := h.service.ListPrograms(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list programs",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	items := make([]library.ProgramSummary, 0, len(programs))
	for _, p := range programs {
		items = append(items, summaryView(p))
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Items: items})
}

func (h *Handler) renderProgramDetail(w http.ResponseWriter, r *http.Request, rawSlug string) {
	ctx := r.Context()

	program, modules, err := h.service.GetProgram(ctx, rawSlug)
	if err != nil {
		if code := dErrors.CodeOf(err); code == dErrors.CodeInternal || code == dErrors.CodeUnavailable {
			h.logger.ErrorContext(ctx, "failed to load program",
				"request_id", requestcontext.RequestID(ctx),
				"program_slug", rawSlug,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detailResponse{
		Program: detailView(*program),
		Modules: moduleViews(modules),
	})
}

type listResponse struct {
	Items []library.ProgramSummary `json:"items"`
}

type detailResponse struct {
	Program library.ProgramDetail  `json:"program"`
	Modules []library.ProgramModule `json:"modules"`
}

func summaryView(p models.Program) library.ProgramSummary {
	return library.ProgramSummary{
		Slug:          p.Slug.String(),
		Name:          p.Name,
		Tagline:       p.Tagline,
		Audience:      p.Audience,
		Duration:      p.Duration,
		CEUs:          p.CEUs,
		Accreditation: p.Accreditation,
		HeroImageURL:  p.HeroImageURL,
	}
}

func detailView(p models.Program) library.ProgramDetail {
	return library.ProgramDetail{
		Slug:          p.Slug.String(),
		Name:          p.Name,
		Tagline:       p.Tagline,
		Description:   p.Description,
		Audience:      p.Audience,
		Duration:      p.Duration,
		CEUs:          p.CEUs,
		Accreditation: p.Accreditation,
		HeroImageURL:  p.HeroImageURL,
	}
}

func moduleViews(modules []models.TrainingModule) []library.ProgramModule {
	out := make([]library.ProgramModule, 0, len(modules))
	for _, m := range modules {
		out = append(out, library.ProgramModule{
			Number:      m.Number,
			Title:       m.Title,
			Summary:     m.Summary,
			Duration:    m.Duration,
			Objectives:  m.Objectives,
			ResourceURL: m.ResourceURL,
		})
	}
	return out
}
