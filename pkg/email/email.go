// Package email holds the small amount of email handling the platform needs:
// normalization before lookups and a fallback display name for enrollment
// requests that arrive without one.
package email

import (
	"strings"
	"unicode"
)

// Normalize lowercases and trims an address so lookups and uniqueness checks
// agree regardless of how the member typed it.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid reports whether the address is plausibly deliverable. This is a
// syntax check only (local part, "@", domain with a dot), not verification.
func IsValid(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if len(local) > 64 || len(domain) > 255 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// DeriveNameFromEmail guesses a (first, last) name pair from the local part
// of an address. Used when an enrollment request or seeded member has no
// explicit name.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Member", "Member"
	}

	first := capitalize(parts[0])
	last := "Member"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
