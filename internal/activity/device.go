package activity

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent derives a human-readable device label ("Chrome on Mac OS X")
// from a raw User-Agent header for the activity feed.
func ParseUserAgent(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return "Unknown Device"
	}

	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := parsed.OSInfo().Name
	if os == "" {
		os = parsed.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return browser + " on " + os
}
