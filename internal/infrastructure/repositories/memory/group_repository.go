package memory

import (
	"context"
	"fmt"
	"sync"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
)

type membershipKey struct {
	groupID domain.GroupID
	userID  domain.UserID
}

type MemoryGroupRepository struct {
	groups      map[domain.GroupID]*domain.AccessGroup
	memberships map[membershipKey]*domain.GroupMembership
	mu          sync.RWMutex
}

func NewMemoryGroupRepository() ports.GroupRepository {
	return &MemoryGroupRepository{
		groups:      make(map[domain.GroupID]*domain.AccessGroup),
		memberships: make(map[membershipKey]*domain.GroupMembership),
	}
}

func (r *MemoryGroupRepository) Create(ctx context.Context, group *domain.AccessGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[group.ID]; exists {
		return fmt.Errorf("group already exists: %s", group.ID)
	}

	stored := *group
	r.groups[group.ID] = &stored
	return nil
}

func (r *MemoryGroupRepository) GetByID(ctx context.Context, id domain.GroupID) (*domain.AccessGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, exists := r.groups[id]
	if !exists {
		return nil, domain.ErrGroupNotFound
	}

	found := *group
	return &found, nil
}

func (r *MemoryGroupRepository) UpsertMembership(ctx context.Context, membership *domain.GroupMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[membership.GroupID]; !exists {
		return domain.ErrGroupNotFound
	}

	stored := *membership
	r.memberships[membershipKey{membership.GroupID, membership.UserID}] = &stored
	return nil
}

func (r *MemoryGroupRepository) RemoveMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{groupID, userID}
	if _, exists := r.memberships[key]; !exists {
		return domain.ErrMembershipNotFound
	}

	delete(r.memberships, key)
	return nil
}

func (r *MemoryGroupRepository) GetMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (*domain.GroupMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	membership, exists := r.memberships[membershipKey{groupID, userID}]
	if !exists {
		return nil, domain.ErrMembershipNotFound
	}

	found := *membership
	return &found, nil
}

func (r *MemoryGroupRepository) ListMemberships(ctx context.Context, groupID domain.GroupID) ([]*domain.GroupMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.GroupMembership
	for key, membership := range r.memberships {
		if key.groupID == groupID {
			found := *membership
			matched = append(matched, &found)
		}
	}
	return matched, nil
}
