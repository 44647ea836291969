package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

// MemoryGenerationStore keeps one atomic counter per resource. An
// unseen resource is at generation zero. Bump is a single atomic
// increment; no lock is held across decision logic.
type MemoryGenerationStore struct {
	counters sync.Map // domain.ResourceID -> *atomic.Int64
}

func NewMemoryGenerationStore() ports.GenerationStore {
	return &MemoryGenerationStore{}
}

func (s *MemoryGenerationStore) counter(id domain.ResourceID) *atomic.Int64 {
	if counter, ok := s.counters.Load(id); ok {
		return counter.(*atomic.Int64)
	}
	counter, _ := s.counters.LoadOrStore(id, new(atomic.Int64))
	return counter.(*atomic.Int64)
}

func (s *MemoryGenerationStore) Current(ctx context.Context, id domain.ResourceID) (int64, error) {
	return s.counter(id).Load(), nil
}

func (s *MemoryGenerationStore) Bump(ctx context.Context, id domain.ResourceID) (int64, error) {
	return s.counter(id).Add(1), nil
}
