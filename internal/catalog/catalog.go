// Package catalog serves the clinical programs catalog: program summaries for
// the listing page and per-program module detail.
package catalog

import (
	"log/slog"

	"rxcampus/internal/catalog/handler"
	"rxcampus/internal/catalog/service"
)

// Service exposes catalog reads over a content source.
type Service = service.Service

// Handler wires the clinical programs endpoint to the service.
type Handler = handler.Handler

// Source is the content backend contract (Airtable, Postgres mirror, memory).
type Source = service.Source

// NewService constructs the catalog service.
func NewService(source Source, opts ...service.Option) *Service {
	return service.New(source, opts...)
}

// NewHandler constructs the HTTP handler for catalog routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
