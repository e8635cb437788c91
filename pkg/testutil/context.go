package testutil

import (
	"net/http"

	id "rxcampus/pkg/domain"
	"rxcampus/pkg/requestcontext"
)

// Authed stamps a member and session on the request context, reproducing
// what the bearer-token middleware leaves behind for a logged-in request.
func Authed(req *http.Request, memberID id.MemberID, sessionID id.SessionID) *http.Request {
	ctx := requestcontext.WithMemberID(req.Context(), memberID)
	ctx = requestcontext.WithSessionID(ctx, sessionID)
	return req.WithContext(ctx)
}

// AuthInjector returns a middleware that authenticates every request as the
// given member, standing in for the real auth middleware when a test mounts
// protected routes directly.
func AuthInjector(memberID id.MemberID, sessionID id.SessionID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, Authed(r, memberID, sessionID))
		})
	}
}
