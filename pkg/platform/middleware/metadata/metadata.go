// Package metadata stamps client attribution (IP address, User-Agent) onto
// the request context. Rate limiting keys on the IP; activity events record
// both.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"rxcampus/pkg/requestcontext"
)

// ClientMetadata resolves the calling client's IP and User-Agent and makes
// them available through requestcontext. It must run before any middleware
// that keys on the client, so it sits early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP picks the original client address, trusting proxy headers in the
// order the platform's load balancer sets them.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first entry is the client; later hops append their own.
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
