// Package models holds the catalog entities. Both mirror flat source tables:
// fields may be absent in the source and stay zero here, and the only link
// between them is the denormalized ProgramSlug match evaluated at query time.
package models

import (
	id "rxcampus/pkg/domain"
)

// Program is one clinical training program row.
type Program struct {
	Slug          id.Slug `json:"slug"`
	Name          string  `json:"name"`
	Tagline       string  `json:"tagline,omitempty"`
	Description   string  `json:"description,omitempty"`
	Audience      string  `json:"audience,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	CEUs          string  `json:"ceus,omitempty"`
	Accreditation string  `json:"accreditation,omitempty"`
	HeroImageURL  string  `json:"hero_image_url,omitempty"`
	DisplayOrder  int     `json:"display_order,omitempty"`
	Active        bool    `json:"active"`
}

// TrainingModule is one module row within a program's curriculum.
type TrainingModule struct {
	ProgramSlug id.Slug  `json:"program_slug"`
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	ResourceURL string   `json:"resource_url,omitempty"`
}
