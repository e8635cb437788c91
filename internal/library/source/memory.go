package source

import (
	"context"
	"sync"

	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
)

// InMemory serves library rows from memory for development and tests.
type InMemory struct {
	mu    sync.RWMutex
	items map[id.Category][]models.Resource
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[id.Category][]models.Resource)}
}

func (s *InMemory) Add(items ...models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Category] = append(s.items[item.Category], item)
	}
}

func (s *InMemory) FetchCategory(_ context.Context, cat id.Category) ([]models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Resource, len(s.items[cat]))
	copy(out, s.items[cat])
	return out, nil
}
