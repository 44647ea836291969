package ports

import (
	"context"

	"mediagate/internal/core/domain"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id domain.ResourceID) (*domain.Resource, error)
	Update(ctx context.Context, resource *domain.Resource) error
	ListByGroup(ctx context.Context, groupID domain.GroupID) ([]*domain.Resource, error)
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Resource, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *domain.AccessGroup) error
	GetByID(ctx context.Context, id domain.GroupID) (*domain.AccessGroup, error)
	UpsertMembership(ctx context.Context, membership *domain.GroupMembership) error
	RemoveMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error
	GetMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (*domain.GroupMembership, error)
	ListMemberships(ctx context.Context, groupID domain.GroupID) ([]*domain.GroupMembership, error)
}

type AccessCodeRepository interface {
	Create(ctx context.Context, code *domain.AccessCode) error
	GetByCode(ctx context.Context, code string) (*domain.AccessCode, error)
	Update(ctx context.Context, code *domain.AccessCode) error
}

// GenerationStore tracks the per-resource revocation epoch. Bump must be
// atomic and visible to all readers before the grant-affecting write it
// belongs to commits. An unknown resource is at generation zero.
type GenerationStore interface {
	Current(ctx context.Context, id domain.ResourceID) (int64, error)
	Bump(ctx context.Context, id domain.ResourceID) (int64, error)
}
