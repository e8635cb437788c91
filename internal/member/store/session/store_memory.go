// Package session tracks live dashboard sessions in memory or Redis.
package session

import (
	"context"
	"sync"
	"time"

	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

// InMemorySessionStore holds sessions in process memory. Expired sessions
// are treated as revoked; Revoke deletes eagerly.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.Session
	now      func() time.Time
}

func New() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[id.SessionID]*models.Session),
		now:      time.Now,
	}
}

func (s *InMemorySessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *InMemorySessionStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

// Revoke drops the session. Revoking an unknown session is not an error;
// logout must be idempotent.
func (s *InMemorySessionStore) Revoke(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemorySessionStore) IsSessionActive(_ context.Context, sessionID id.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return false, nil
	}
	return session.ExpiresAt.After(s.now()), nil
}
