package services

import (
	"context"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/utils"
)

type resourceService struct {
	resourceRepo ports.ResourceRepository
	groupRepo    ports.GroupRepository
	authz        ports.AuthzService
	generations  ports.GenerationStore
}

func NewResourceService(
	resourceRepo ports.ResourceRepository,
	groupRepo ports.GroupRepository,
	authz ports.AuthzService,
	generations ports.GenerationStore,
) ports.ResourceService {
	return &resourceService{
		resourceRepo: resourceRepo,
		groupRepo:    groupRepo,
		authz:        authz,
		generations:  generations,
	}
}

func (s *resourceService) Register(ctx context.Context, owner domain.UserID, kind domain.ResourceKind, title string, groupID domain.GroupID, isPublic bool) (*domain.Resource, error) {
	if kind != domain.ResourceKindVideo && kind != domain.ResourceKindImage {
		return nil, fmt.Errorf("unsupported resource kind: %s", kind)
	}
	if groupID != "" {
		if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	resource := &domain.Resource{
		ID:        domain.ResourceID(utils.GenerateResourceID()),
		Kind:      kind,
		Title:     title,
		OwnerID:   owner,
		GroupID:   groupID,
		IsPublic:  isPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return resource, nil
}

func (s *resourceService) Get(ctx context.Context, id domain.ResourceID) (*domain.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

// SetVisibility flips is_public. The flip is grant-affecting, so the
// generation is bumped before the write commits: a request arriving
// after the change is acknowledged can never ride an old token.
func (s *resourceService) SetVisibility(ctx context.Context, subject domain.Subject, id domain.ResourceID, isPublic bool) (*domain.Resource, error) {
	resource, err := s.requireAdmin(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if resource.IsPublic == isPublic {
		return resource, nil
	}

	if _, err := s.generations.Bump(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to bump generation: %w", err)
	}

	resource.IsPublic = isPublic
	resource.UpdatedAt = time.Now()
	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return resource, nil
}

// AssignGroup moves the resource to another group (or out of any group
// when groupID is empty). Group-scoped codes follow the current group,
// so reassignment is grant-affecting too.
func (s *resourceService) AssignGroup(ctx context.Context, subject domain.Subject, id domain.ResourceID, groupID domain.GroupID) (*domain.Resource, error) {
	resource, err := s.requireAdmin(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if groupID != "" {
		if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
			return nil, err
		}
	}
	if resource.GroupID == groupID {
		return resource, nil
	}

	if _, err := s.generations.Bump(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to bump generation: %w", err)
	}

	resource.GroupID = groupID
	resource.UpdatedAt = time.Now()
	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return resource, nil
}

func (s *resourceService) requireAdmin(ctx context.Context, subject domain.Subject, id domain.ResourceID) (*domain.Resource, error) {
	decision, err := s.authz.CheckAccess(ctx, subject, id, domain.CapabilityAdmin)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return resource, nil
}
