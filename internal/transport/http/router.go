// Package httptransport assembles the API router: the middleware chain, the
// module handlers, and the operational endpoints. Business logic stays in the
// module services; this package only decides what runs where.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	activityhandler "rxcampus/internal/activity/handler"
	cataloghandler "rxcampus/internal/catalog/handler"
	enrollhandler "rxcampus/internal/enroll/handler"
	libraryhandler "rxcampus/internal/library/handler"
	memberhandler "rxcampus/internal/member/handler"
	"rxcampus/internal/platform/metrics"
	"rxcampus/internal/platform/middleware"
	ratelimitmw "rxcampus/internal/ratelimit/middleware"
	"rxcampus/internal/ratelimit/models"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/platform/middleware/metadata"
	"rxcampus/pkg/platform/middleware/requesttime"
)

// Handlers collects the module handlers the router mounts.
type Handlers struct {
	Catalog  *cataloghandler.Handler
	Library  *libraryhandler.Handler
	Member   *memberhandler.Handler
	Activity *activityhandler.Handler
	Enroll   *enrollhandler.Handler
}

// Deps carries the cross-cutting pieces of the middleware chain.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Tokens         middleware.JWTValidator
	Sessions       middleware.SessionChecker
	RateLimit      *ratelimitmw.Middleware
	AdminToken     string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router for the API server.
func NewRouter(h Handlers, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Instrument(deps.Metrics))
	r.Use(middleware.Timeout(deps.RequestTimeout))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public content. Optional auth attributes activity to a member when a
	// valid token is present without gating access.
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.RateLimit(models.ClassContent))
		r.Use(middleware.OptionalAuth(deps.Tokens, deps.Sessions, deps.Logger))
		h.Catalog.Register(r)
		h.Library.Register(r)
		h.Enroll.Register(r)
	})

	// Login carries its own tighter budget so credential stuffing cannot
	// ride the content allowance.
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimit.RateLimit(models.ClassAuth))
		h.Member.RegisterPublic(r)
	})

	// Member endpoints require a live session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens, deps.Sessions, deps.Logger))
		h.Member.RegisterProtected(r)
		h.Activity.Register(r)
	})

	// Operational endpoints sit behind the shared admin token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(deps.AdminToken, deps.Logger))
		r.Post("/internal/cache/purge", h.Library.HandleCachePurge)
	})

	return r
}

type healthResponse struct {
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
}

// handleHealth reports liveness. The category list doubles as a cheap smoke
// signal that the binary was built with the expected content taxonomy.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	cats := id.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Categories: names})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no such endpoint"))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, "method not allowed for this endpoint"))
}
