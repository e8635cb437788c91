package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rxcampus/internal/member/models"
	"rxcampus/internal/member/service"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// Service defines the member operations the handler needs.
type Service interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID id.SessionID) error
	Profile(ctx context.Context, memberID id.MemberID) (*models.Member, error)
	ListBookmarks(ctx context.Context, memberID id.MemberID) ([]models.Bookmark, error)
	AddBookmark(ctx context.Context, memberID id.MemberID, input service.BookmarkInput) (*models.Bookmark, error)
	RemoveBookmark(ctx context.Context, memberID id.MemberID, rawBookmarkID string) error
}

// Handler wires member auth and dashboard endpoints to the member service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

// RegisterProtected mounts endpoints that require a valid session. The auth
// middleware must run before these.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/me", h.HandleProfile)
	r.Get("/me/bookmarks", h.HandleListBookmarks)
	r.Post("/me/bookmarks", h.HandleAddBookmark)
	r.Delete("/me/bookmarks/{bookmarkID}", h.HandleRemoveBookmark)
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleLogout handles POST /auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.Logout(ctx, sessionID); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type profileResponse struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	EnrolledPrograms []string `json:"enrolled_programs"`
	MemberSince      string   `json:"member_since"`
}

// HandleProfile handles GET /me.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, ok := h.requireMember(w, ctx)
	if !ok {
		return
	}

	member, err := h.service.Profile(ctx, memberID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to load profile",
				"request_id", requestcontext.RequestID(ctx),
				"member_id", memberID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	programs := make([]string, 0, len(member.EnrolledPrograms))
	for _, slug := range member.EnrolledPrograms {
		programs = append(programs, slug.String())
	}

	httputil.WriteJSON(w, http.StatusOK, profileResponse{
		Name:             member.DisplayName,
		Email:            member.Email,
		Role:             member.Role,
		EnrolledPrograms: programs,
		MemberSince:      member.MemberSince.UTC().Format("2006-01-02"),
	})
}

type bookmarkView struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	CreatedAt  string `json:"created_at"`
}

type bookmarkListResponse struct {
	Items []bookmarkView `json:"items"`
}

// HandleListBookmarks handles GET /me/bookmarks.
func (h *Handler) HandleListBookmarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, ok := h.requireMember(w, ctx)
	if !ok {
		return
	}

	bookmarks, err := h.service.ListBookmarks(ctx, memberID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list bookmarks",
			"request_id", requestcontext.RequestID(ctx),
			"member_id", memberID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	items := make([]bookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		items = append(items, bookmarkViewOf(b))
	}
	httputil.WriteJSON(w, http.StatusOK, bookmarkListResponse{Items: items})
}

// HandleAddBookmark handles POST /me/bookmarks.
func (h *Handler) HandleAddBookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, ok := h.requireMember(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[BookmarkRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	bookmark, err := h.service.AddBookmark(ctx, memberID, service.BookmarkInput{
		ResourceID: req.ResourceID,
		Category:   req.Category,
		Title:      req.Title,
	})
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to save bookmark",
				"request_id", requestcontext.RequestID(ctx),
				"member_id", memberID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, bookmarkViewOf(*bookmark))
}

// HandleRemoveBookmark handles DELETE /me/bookmarks/{bookmarkID}.
func (h *Handler) HandleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID, ok := h.requireMember(w, ctx)
	if !ok {
		return
	}

	if err := h.service.RemoveBookmark(ctx, memberID, chi.URLParam(r, "bookmarkID")); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to remove bookmark",
				"request_id", requestcontext.RequestID(ctx),
				"member_id", memberID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireMember(w http.ResponseWriter, ctx context.Context) (id.MemberID, bool) {
	memberID := requestcontext.MemberID(ctx)
	if memberID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.MemberID{}, false
	}
	return memberID, true
}

func bookmarkViewOf(b models.Bookmark) bookmarkView {
	return bookmarkView{
		ID:         b.ID.String(),
		ResourceID: b.ResourceID,
		Category:   b.Category.String(),
		Title:      b.Title,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
