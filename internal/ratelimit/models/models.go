// Package models defines the rate limiting types shared by the bucket
// store, service, and middleware layers.
package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassContent covers the public catalog and resource library reads,
	// which fan out to the Airtable budget.
	ClassContent EndpointClass = "content"
	// ClassAuth covers credential endpoints, which get a much tighter
	// budget than content reads.
	ClassAuth EndpointClass = "auth"
)

// IsValid checks if the endpoint class is one of the supported values.
func (c EndpointClass) IsValid() bool {
	return c == ClassContent || c == ClassAuth
}

// String returns the string representation.
func (c EndpointClass) String() string {
	return string(c)
}

// Result represents the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the suggested wait in seconds, only set when denied.
	RetryAfter int
}

// ClientKey builds the bucket key for a client IP within an endpoint class.
// Delimiters inside the identifier are escaped so a crafted value cannot
// collide with an adjacent bucket.
func ClientKey(class EndpointClass, ip string) string {
	return "ip:" + string(class) + ":" + sanitizeSegment(ip)
}

func sanitizeSegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}
