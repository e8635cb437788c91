// Package activity captures member dashboard events (logins, program views,
// resource downloads, bookmarks) through a non-blocking publisher and serves
// them back newest-first.
package activity

import (
	"time"

	id "rxcampus/pkg/domain"
)

// EventType classifies a recorded member action.
type EventType string

const (
	EventLogin              EventType = "login"
	EventProgramViewed      EventType = "program_viewed"
	EventResourceDownloaded EventType = "resource_downloaded"
	EventBookmarkAdded      EventType = "bookmark_added"
)

// Event is emitted from domain logic to capture a member action. Metadata is
// a slog-style key-value slice; ClientIP and UserAgent are filled from the
// request context when left empty.
type Event struct {
	MemberID   id.MemberID
	Type       EventType
	Subject    string
	Metadata   []any
	ClientIP   string
	UserAgent  string
	OccurredAt time.Time
}

// Entry is the persisted form of an event, with metadata flattened for
// storage and listing.
type Entry struct {
	MemberID   id.MemberID
	Type       EventType
	Subject    string
	Metadata   map[string]string
	ClientIP   string
	UserAgent  string
	OccurredAt time.Time
}
