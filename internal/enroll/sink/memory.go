package sink

import (
	"context"
	"sync"

	"rxcampus/internal/enroll/models"
)

// InMemorySink collects submissions in memory for development and tests.
type InMemorySink struct {
	mu       sync.RWMutex
	received []models.EnrollmentRequest
}

func NewInMemory() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Submit(ctx context.Context, req models.EnrollmentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, req)
	return nil
}

// Received returns a copy of everything submitted so far.
func (s *InMemorySink) Received() []models.EnrollmentRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EnrollmentRequest, len(s.received))
	copy(out, s.received)
	return out
}
