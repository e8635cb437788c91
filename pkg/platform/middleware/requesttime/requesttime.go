// Package requesttime pins one timestamp per request. A login that opens a
// session, mints a token, and records an activity event should stamp all
// three with the same instant.
package requesttime

import (
	"net/http"
	"time"

	"rxcampus/pkg/requestcontext"
)

// Middleware reads the clock once on the way in and parks the value in the
// request context for requestcontext.Now.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
