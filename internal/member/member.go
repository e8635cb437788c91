// Package member implements the mocked member experience: a single seeded
// demo account, session-backed login and logout, the profile endpoint, and
// bookmarks for the dashboard.
package member

import (
	"log/slog"

	"rxcampus/internal/member/handler"
	"rxcampus/internal/member/service"
)

// Service owns member auth and dashboard operations.
type Service = service.Service

// Handler wires member endpoints to the service.
type Handler = handler.Handler

// BookmarkInput carries the fields needed to save a bookmark.
type BookmarkInput = service.BookmarkInput

// LoginResult is what a successful login returns.
type LoginResult = service.LoginResult

// NewService constructs the member service.
func NewService(
	members service.MemberStore,
	sessions service.SessionStore,
	bookmarks service.BookmarkStore,
	tokens service.TokenIssuer,
	opts ...service.Option,
) *Service {
	return service.New(members, sessions, bookmarks, tokens, opts...)
}

// NewHandler constructs the HTTP handler for member routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
