package airtable

import (
	"time"

	id "rxcampus/pkg/domain"
)

// Record is one Airtable row. Fields holds the raw cell values keyed by field
// name; the typed accessors below absorb Airtable's loose JSON typing so
// callers never touch map[string]any directly.
type Record struct {
	ID          id.RecordID    `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Attachment is one file in an Airtable attachment cell.
type Attachment struct {
	ID       string
	URL      string
	Filename string
	Size     int64
	Type     string
}

// String returns the field as a string, or "" when absent or mistyped.
func (r Record) String(field string) string {
	v, _ := r.Fields[field].(string)
	return v
}

// StringSlice returns a multi-select or linked-record field as strings.
func (r Record) StringSlice(field string) []string {
	raw, ok := r.Fields[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Number returns a numeric field. Airtable sends all numbers as float64.
func (r Record) Number(field string) float64 {
	v, _ := r.Fields[field].(float64)
	return v
}

// Int returns a numeric field truncated to int.
func (r Record) Int(field string) int {
	return int(r.Number(field))
}

// Bool returns a checkbox field. Absent means unchecked.
func (r Record) Bool(field string) bool {
	v, _ := r.Fields[field].(bool)
	return v
}

// Attachments decodes an attachment field. Cells that are not attachment
// arrays yield nil.
func (r Record) Attachments(field string) []Attachment {
	raw, ok := r.Fields[field].([]any)
	if !ok {
		return nil
	}
	out := make([]Attachment, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		att := Attachment{
			ID:       stringAt(m, "id"),
			URL:      stringAt(m, "url"),
			Filename: stringAt(m, "filename"),
			Type:     stringAt(m, "type"),
		}
		if size, ok := m["size"].(float64); ok {
			att.Size = int64(size)
		}
		out = append(out, att)
	}
	return out
}

func stringAt(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// SortField orders a list query by one field.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions narrows a ListRecords query. The zero value lists everything.
type ListOptions struct {
	// FilterByFormula is an Airtable formula; records where it evaluates
	// falsy are excluded server-side.
	FilterByFormula string
	// Fields restricts which cell values are returned.
	Fields []string
	// Sort orders results server-side, applied in order.
	Sort []SortField
	// MaxRecords caps the total number of records fetched across pages.
	MaxRecords int
	// View scopes the query to a view's filtered, ordered row set.
	View string
	// PageSize overrides Airtable's default page size of 100 (max 100).
	PageSize int
}
