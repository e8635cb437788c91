// Package memory keeps activity entries in process memory for development and
// tests.
package memory

import (
	"context"
	"sync"

	"rxcampus/internal/activity"
	id "rxcampus/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.MemberID][]activity.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.MemberID][]activity.Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry activity.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.MemberID] = append(s.entries[entry.MemberID], entry)
	return nil
}

// ListRecent returns the member's newest entries first. Entries are appended
// in arrival order, so the tail of the slice is the newest.
func (s *InMemoryStore) ListRecent(_ context.Context, memberID id.MemberID, limit int) ([]activity.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.entries[memberID]
	start := len(all) - limit
	if start < 0 {
		start = 0
	}

	out := make([]activity.Entry, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[id.MemberID][]activity.Entry)
}
