package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/platform/httputil"
	"rxcampus/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// SessionChecker reports whether the session behind a token is still active.
// Logout revokes the session, which must take effect before the token expires.
type SessionChecker interface {
	IsSessionActive(ctx context.Context, sessionID id.SessionID) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	MemberID  string
	SessionID string
}

// RequireAuth guards member endpoints. It validates the bearer token, checks
// the session has not been revoked, and stores the member and session IDs in
// the request context.
func RequireAuth(validator JWTValidator, sessions SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			memberID, err := id.ParseMemberID(claims.MemberID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed member claim",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}
			sessionID, err := id.ParseSessionID(claims.SessionID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed session claim",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			if sessions != nil {
				active, err := sessions.IsSessionActive(ctx, sessionID)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check session state",
						"error", err,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to validate token"))
					return
				}
				if !active {
					logger.WarnContext(ctx, "unauthorized access - session revoked",
						"session_id", sessionID,
						"request_id", requestID,
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Session has been revoked"))
					return
				}
			}

			ctx = requestcontext.WithMemberID(ctx, memberID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth identifies the member on public endpoints when a valid bearer
// token is present, so content views can land in the activity feed. It never
// rejects: anonymous requests, bad tokens, and revoked sessions all pass
// through unauthenticated.
func OptionalAuth(validator JWTValidator, sessions SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			memberID, err := id.ParseMemberID(claims.MemberID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, err := id.ParseSessionID(claims.SessionID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if sessions != nil {
				active, err := sessions.IsSessionActive(ctx, sessionID)
				if err != nil {
					logger.WarnContext(ctx, "failed to check session state, treating request as anonymous",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
					next.ServeHTTP(w, r)
					return
				}
				if !active {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx = requestcontext.WithMemberID(ctx, memberID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
