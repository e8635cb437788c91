// Package token mints and validates the HS256 access tokens the API hands
// out at login. Tokens are short lived; there is no refresh flow, expired
// means log in again.
package token

import (
	"errors"
	"time"

	dErrors "rxcampus/pkg/domain-errors"
	id "rxcampus/pkg/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errTokenExpired = dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	errTokenInvalid = dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	errBadClaims    = dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
)

// Claims carried by member access tokens, on top of the registered set.
type Claims struct {
	MemberID  string `json:"member_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Service signs and validates member access tokens with a shared HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey string, issuer string, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken mints a signed token for one member session. The jti is
// a fresh UUID so two logins in the same second still produce distinct tokens.
func (s *Service) GenerateAccessToken(
	memberID id.MemberID,
	sessionID id.SessionID,
	expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID:  memberID.String(),
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID.String(),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token string. Callers get a coarse
// unauthorized error either way; only expiry is distinguished, so the
// frontend can say "session expired" instead of "bad token".
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFor)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}
	if !parsed.Valid {
		return nil, errTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, errBadClaims
	}
	return claims, nil
}

// keyFor releases the signing key only for HMAC tokens, refusing alg
// substitution (an RS256 token must not be verified against the HMAC key
// as if it were public material).
func (s *Service) keyFor(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.signingKey, nil
}
