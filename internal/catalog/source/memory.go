package source

import (
	"context"
	"sync"

	"rxcampus/internal/catalog/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
)

// InMemory serves the catalog from memory. Development and tests run against
// it seeded; nothing mutates it after boot.
type InMemory struct {
	mu       sync.RWMutex
	programs []models.Program
	modules  []models.TrainingModule
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) AddProgram(p models.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = append(s.programs, p)
}

func (s *InMemory) AddModule(m models.TrainingModule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = append(s.modules, m)
}

func (s *InMemory) ListPrograms(_ context.Context) ([]models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Program, len(s.programs))
	copy(out, s.programs)
	return out, nil
}

func (s *InMemory) FindProgramBySlug(_ context.Context, slug id.Slug) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.programs {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListModules(_ context.Context, programSlug id.Slug) ([]models.TrainingModule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TrainingModule
	for _, m := range s.modules {
		if m.ProgramSlug == programSlug {
			out = append(out, m)
		}
	}
	return out, nil
}
