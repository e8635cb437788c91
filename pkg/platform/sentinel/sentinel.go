package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, sources, and REST clients
// return these (optionally wrapped) so services can translate them into coded
// domain errors without inspecting driver- or API-specific failures.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: record does not exist in the store/source
//   - ErrConflict: a uniqueness rule in the store rejected the write
//   - ErrExpired: session or signed URL is past its lifetime
//   - ErrUnavailable: upstream (Airtable, Supabase, Redis) is unreachable or
//     exhausted its retry budget
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
