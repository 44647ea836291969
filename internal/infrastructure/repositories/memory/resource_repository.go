package memory

import (
	"context"
	"fmt"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type MemoryResourceRepository struct {
	resources map[domain.ResourceID]*domain.Resource
	mu        sync.RWMutex
}

func NewMemoryResourceRepository() ports.ResourceRepository {
	return &MemoryResourceRepository{
		resources: make(map[domain.ResourceID]*domain.Resource),
	}
}

func (r *MemoryResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[resource.ID]; exists {
		return fmt.Errorf("resource already exists: %s", resource.ID)
	}

	stored := *resource
	r.resources[resource.ID] = &stored
	return nil
}

func (r *MemoryResourceRepository) GetByID(ctx context.Context, id domain.ResourceID) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, exists := r.resources[id]
	if !exists {
		return nil, domain.ErrResourceNotFound
	}

	found := *resource
	return &found, nil
}

func (r *MemoryResourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[resource.ID]; !exists {
		return domain.ErrResourceNotFound
	}

	stored := *resource
	r.resources[resource.ID] = &stored
	return nil
}

func (r *MemoryResourceRepository) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Resource
	for _, resource := range r.resources {
		if resource.GroupID == groupID {
			found := *resource
			matched = append(matched, &found)
		}
	}
	return matched, nil
}

func (r *MemoryResourceRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Resource
	for _, resource := range r.resources {
		if resource.OwnerID == ownerID {
			found := *resource
			matched = append(matched, &found)
		}
	}
	return matched, nil
}
