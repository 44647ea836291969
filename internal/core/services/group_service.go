package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/utils"
)

type groupService struct {
	groupRepo    ports.GroupRepository
	resourceRepo ports.ResourceRepository
	generations  ports.GenerationStore
}

func NewGroupService(
	groupRepo ports.GroupRepository,
	resourceRepo ports.ResourceRepository,
	generations ports.GenerationStore,
) ports.GroupService {
	return &groupService{
		groupRepo:    groupRepo,
		resourceRepo: resourceRepo,
		generations:  generations,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, owner domain.UserID, name string) (*domain.AccessGroup, error) {
	if owner == "" {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	group := &domain.AccessGroup{
		ID:        domain.GroupID(utils.GenerateGroupID()),
		Name:      name,
		Slug:      utils.Slugify(name),
		OwnerID:   owner,
		CreatedAt: now,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// The creator administers the group from the start.
	membership := &domain.GroupMembership{
		GroupID:   group.ID,
		UserID:    owner,
		Role:      domain.RoleAdmin,
		GrantedAt: now,
	}
	if err := s.groupRepo.UpsertMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}
	return group, nil
}

func (s *groupService) SetMembership(ctx context.Context, subject domain.Subject, groupID domain.GroupID, userID domain.UserID, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	ok, err := hasGroupAdmin(ctx, s.groupRepo, subject, group)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	// A downgrade removes access outstanding tokens may still carry, so
	// every resource in the group gets a new generation first.
	existing, err := s.groupRepo.GetMembership(ctx, groupID, userID)
	switch {
	case err == nil:
		if role.Capability() < existing.Role.Capability() {
			if err := s.bumpGroupResources(ctx, groupID); err != nil {
				return err
			}
		}
	case errors.Is(err, domain.ErrMembershipNotFound):
		// plain addition, nothing to revoke
	default:
		return err
	}

	membership := &domain.GroupMembership{
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		GrantedAt: time.Now(),
	}
	if err := s.groupRepo.UpsertMembership(ctx, membership); err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

func (s *groupService) RemoveMembership(ctx context.Context, subject domain.Subject, groupID domain.GroupID, userID domain.UserID) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	ok, err := hasGroupAdmin(ctx, s.groupRepo, subject, group)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	// Confirm the membership exists before touching any generation: a
	// no-op removal must not invalidate the group's outstanding tokens.
	if _, err := s.groupRepo.GetMembership(ctx, groupID, userID); err != nil {
		return err
	}

	// Bump before the removal commits: a request observing the removal
	// must also observe the new generation.
	if err := s.bumpGroupResources(ctx, groupID); err != nil {
		return err
	}
	if err := s.groupRepo.RemoveMembership(ctx, groupID, userID); err != nil {
		return err
	}
	return nil
}

func (s *groupService) bumpGroupResources(ctx context.Context, groupID domain.GroupID) error {
	resources, err := s.resourceRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list group resources: %w", err)
	}
	for _, resource := range resources {
		if _, err := s.generations.Bump(ctx, resource.ID); err != nil {
			return fmt.Errorf("failed to bump generation for %s: %w", resource.ID, err)
		}
	}
	return nil
}

// hasGroupAdmin reports whether the subject holds Admin capability on
// the group: being its owner, or a member with the Admin role.
func hasGroupAdmin(ctx context.Context, groupRepo ports.GroupRepository, subject domain.Subject, group *domain.AccessGroup) (bool, error) {
	if subject.Kind != domain.SubjectUser {
		return false, nil
	}
	if group.OwnerID == subject.UserID {
		return true, nil
	}
	membership, err := groupRepo.GetMembership(ctx, group.ID, subject.UserID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return membership.Role.Capability().Implies(domain.CapabilityAdmin), nil
}
