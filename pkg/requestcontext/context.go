// Package requestcontext carries request-scoped values between middleware
// and the layers below without an http dependency: the authenticated member
// and session, client attribution for activity events, the request ID that
// threads through logs, and a request-stable clock.
//
// Middleware writes, everything else reads:
//
//	ctx = requestcontext.WithMemberID(ctx, memberID)
//	...
//	if requestcontext.MemberID(ctx).IsNil() { /* anonymous */ }
package requestcontext

import (
	"context"
	"time"

	id "rxcampus/pkg/domain"
)

type (
	memberIDKey    struct{}
	sessionIDKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// value reads a typed context entry, zero when absent or mistyped.
func value[T any](ctx context.Context, key any) T {
	v, _ := ctx.Value(key).(T)
	return v
}

// WithMemberID marks the context as belonging to an authenticated member.
func WithMemberID(ctx context.Context, memberID id.MemberID) context.Context {
	return context.WithValue(ctx, memberIDKey{}, memberID)
}

// MemberID returns the authenticated member, zero (nil UUID) for anonymous
// requests.
func MemberID(ctx context.Context) id.MemberID {
	return value[id.MemberID](ctx, memberIDKey{})
}

// WithSessionID records which session authenticated the request.
func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionID returns the authenticating session, zero when anonymous.
func SessionID(ctx context.Context) id.SessionID {
	return value[id.SessionID](ctx, sessionIDKey{})
}

// WithClientMetadata records the calling client's address and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// ClientIP returns the client address, "" when no middleware recorded one.
func ClientIP(ctx context.Context) string {
	return value[string](ctx, clientIPKey{})
}

// UserAgent returns the client's User-Agent header, "" when unset.
func UserAgent(ctx context.Context) string {
	return value[string](ctx, userAgentKey{})
}

// WithRequestID tags the context with the ID log lines correlate on.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation ID, "" outside a request.
func RequestID(ctx context.Context) string {
	return value[string](ctx, requestIDKey{})
}

// WithTime pins the context clock so one request observes one timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to the wall clock for
// workers and CLI paths that never pass through the middleware.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
