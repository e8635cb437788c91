// Package models holds the resource library entities. Resources are flat
// rows from six category tables; missing fields stay zero and render blank.
package models

import (
	"time"

	id "rxcampus/pkg/domain"
)

// Resource is one downloadable entry in the library.
type Resource struct {
	ID          string      `json:"id"`
	Category    id.Category `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	FileURL     string      `json:"file_url,omitempty"`
	FileName    string      `json:"file_name,omitempty"`
	FileSize    int64       `json:"file_size,omitempty"`
	FileType    string      `json:"file_type,omitempty"`
	ProgramSlug id.Slug     `json:"program_slug,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Snapshot is one assembled view of the whole library, built by fetching all
// categories and cached as a unit. FailedCategories records which category
// fetches degraded out of this snapshot.
type Snapshot struct {
	Items            []Resource `json:"items"`
	FailedCategories []string   `json:"failed_categories,omitempty"`
	FetchedAt        time.Time  `json:"fetched_at"`
}
