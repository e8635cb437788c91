package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rxcampus/internal/activity"
	"rxcampus/internal/member/models"
	"rxcampus/internal/member/secrets"
	id "rxcampus/pkg/domain"
	dErrors "rxcampus/pkg/domain-errors"
	"rxcampus/pkg/email"
	"rxcampus/pkg/platform/sentinel"
)

// LoginResult carries the issued token and the member it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Member    *models.Member
}

// Login verifies credentials against the seeded member, opens a session, and
// mints an access token. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, rawEmail, password string) (*LoginResult, error) {
	normalized := email.Normalize(rawEmail)
	if normalized == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}

	member, err := s.members.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.rejectLogin(ctx, normalized)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up member")
	}

	if err := secrets.Verify(password, member.PasswordHash); err != nil {
		return nil, s.rejectLogin(ctx, normalized)
	}

	now := s.now()
	session := &models.Session{
		ID:        id.SessionID(uuid.New()),
		MemberID:  member.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	token, err := s.tokens.GenerateAccessToken(member.ID, session.ID, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncLoginSuccess()
	s.record(ctx, activity.Event{
		MemberID: member.ID,
		Type:     activity.EventLogin,
	})
	s.logger.InfoContext(ctx, "member logged in",
		"member_id", member.ID,
		"session_id", session.ID,
	)

	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Member:    member,
	}, nil
}

func (s *Service) rejectLogin(ctx context.Context, normalizedEmail string) error {
	s.metrics.IncLoginFailure()
	s.logger.WarnContext(ctx, "login rejected",
		"email", normalizedEmail,
	)
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// Logout revokes the session. Revoking an already-revoked session succeeds.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke session")
	}
	s.metrics.IncSessionRevoked()
	s.logger.InfoContext(ctx, "session revoked",
		"session_id", sessionID,
	)
	return nil
}
