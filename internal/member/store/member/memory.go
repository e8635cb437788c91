// Package member stores the seeded member roster in process memory. Auth is
// mocked, so there is no durable member backend.
package member

import (
	"context"
	"strings"
	"sync"

	"rxcampus/internal/member/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.MemberID]*models.Member
	byEmail map[string]*models.Member
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.MemberID]*models.Member),
		byEmail: make(map[string]*models.Member),
	}
}

func (s *InMemory) Add(member *models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *member
	s.byID[member.ID] = &copied
	s.byEmail[strings.ToLower(member.Email)] = &copied
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *member
	return &copied, nil
}

func (s *InMemory) FindByID(_ context.Context, memberID id.MemberID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.byID[memberID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *member
	return &copied, nil
}
