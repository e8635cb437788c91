// Package library serves the resource library: downloadable protocols, forms,
// handouts, and billing references merged across all categories, with an
// optional cached snapshot in front of the content source.
package library

import (
	"log/slog"

	"rxcampus/internal/library/handler"
	"rxcampus/internal/library/service"
)

// Service assembles, caches, and filters the resource library.
type Service = service.Service

// Handler wires the resource library endpoints to the service.
type Handler = handler.Handler

// Source fetches resource rows per category (Airtable, Postgres mirror,
// memory).
type Source = service.Source

// Cache stores assembled snapshots between requests.
type Cache = service.Cache

// Filter narrows a library listing.
type Filter = service.Filter

// NewService constructs the library service.
func NewService(source Source, opts ...service.Option) *Service {
	return service.New(source, opts...)
}

// NewHandler constructs the HTTP handler for library routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
