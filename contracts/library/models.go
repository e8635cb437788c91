package library

// Package library hosts the stable, minimal DTOs the public API promises to
// site consumers. Keep these presentation-ready and versioned independently
// from any internal source schemas (Airtable fields, mirror tables).

// ContractVersion identifies the contract schema version for compatibility
// checks. Bump on breaking changes to the shapes below; consumers can pin or
// roll forward.
const ContractVersion = "v0.3.0"

// ResourceItem is one downloadable entry in the resource library listing.
// FileURL is always directly fetchable by a browser (public or pre-signed);
// internal bucket paths never leak through this shape.
type ResourceItem struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	FileURL     string   `json:"file_url,omitempty"`
	FileName    string   `json:"file_name,omitempty"`
	FileSize    int64    `json:"file_size,omitempty"`
	FileType    string   `json:"file_type,omitempty"`
	ProgramSlug string   `json:"program_slug,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// ProgramSummary is the card-level view of a clinical program used by the
// programs listing. Richer module detail stays behind the programSlug query.
type ProgramSummary struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline,omitempty"`
	Audience      string `json:"audience,omitempty"`
	Duration      string `json:"duration,omitempty"`
	CEUs          string `json:"ceus,omitempty"`
	Accreditation string `json:"accreditation,omitempty"`
	HeroImageURL  string `json:"hero_image_url,omitempty"`
}

// ProgramDetail is the full program view returned when a single program is
// requested by slug.
type ProgramDetail struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline,omitempty"`
	Description   string `json:"description,omitempty"`
	Audience      string `json:"audience,omitempty"`
	Duration      string `json:"duration,omitempty"`
	CEUs          string `json:"ceus,omitempty"`
	Accreditation string `json:"accreditation,omitempty"`
	HeroImageURL  string `json:"hero_image_url,omitempty"`
}

// ProgramModule is one training module row in a program detail response,
// ordered by Number.
type ProgramModule struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	ResourceURL string   `json:"resource_url,omitempty"`
}
