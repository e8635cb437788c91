package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// RequireAdminToken guards operational endpoints (cache purge) behind a
// shared X-Admin-Token header, compared in constant time. An empty
// configured token denies everything, so the surface stays off unless
// explicitly enabled.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := []byte(r.Header.Get("X-Admin-Token"))
			match := subtle.ConstantTimeCompare(presented, expected) == 1
			if len(expected) == 0 || !match {
				logger.WarnContext(r.Context(), "admin token mismatch",
					"request_id", requestcontext.RequestID(r.Context()))
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
