package memory

import (
	"context"
	"fmt"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type MemoryAccessCodeRepository struct {
	codes map[string]*domain.AccessCode
	mu    sync.RWMutex
}

func NewMemoryAccessCodeRepository() ports.AccessCodeRepository {
	return &MemoryAccessCodeRepository{
		codes: make(map[string]*domain.AccessCode),
	}
}

func (r *MemoryAccessCodeRepository) Create(ctx context.Context, code *domain.AccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[code.Code]; exists {
		return fmt.Errorf("access code already exists: %s", code.Code)
	}

	stored := *code
	r.codes[code.Code] = &stored
	return nil
}

func (r *MemoryAccessCodeRepository) GetByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accessCode, exists := r.codes[code]
	if !exists {
		return nil, domain.ErrCodeNotFound
	}

	found := *accessCode
	return &found, nil
}

func (r *MemoryAccessCodeRepository) Update(ctx context.Context, code *domain.AccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codes[code.Code]; !exists {
		return domain.ErrCodeNotFound
	}

	stored := *code
	r.codes[code.Code] = &stored
	return nil
}
