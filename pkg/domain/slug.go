package domain

import (
	"strings"

	dErrors "rxcampus/pkg/domain-errors"
)

// Slug is a URL-safe program identifier ("mtm-certification"). Module to
// program linkage is a denormalized slug match evaluated at query time, so the
// same normalization must run on every path that touches a slug.
type Slug string

// ParseSlug normalizes and validates external input into a Slug: lowercased,
// trimmed, limited to [a-z0-9-], 64 chars max.
// Errors: CodeInvalidInput for empty or malformed values.
func ParseSlug(s string) (Slug, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "slug cannot be empty")
	}
	if len(s) > 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "slug must be 64 characters or less")
	}
	for _, r := range s {
		if !isAlnum(r) && r != '-' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "slug may only contain letters, digits, and hyphens")
		}
	}
	return Slug(s), nil
}

// Slugify derives a Slug from free text (program names coming out of
// spreadsheet cells). Non-alphanumerics collapse into single hyphens.
func Slugify(s string) Slug {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case isAlnum(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > 64 {
		out = strings.TrimRight(out[:64], "-")
	}
	return Slug(out)
}

func (s Slug) String() string { return string(s) }

func (s Slug) IsNil() bool { return s == "" }
