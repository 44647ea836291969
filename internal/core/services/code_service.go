package services

import (
	"context"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/utils"
)

type codeService struct {
	codeRepo     ports.AccessCodeRepository
	resourceRepo ports.ResourceRepository
	groupRepo    ports.GroupRepository
	authz        ports.AuthzService
	generations  ports.GenerationStore
}

func NewCodeService(
	codeRepo ports.AccessCodeRepository,
	resourceRepo ports.ResourceRepository,
	groupRepo ports.GroupRepository,
	authz ports.AuthzService,
	generations ports.GenerationStore,
) ports.CodeService {
	return &codeService{
		codeRepo:     codeRepo,
		resourceRepo: resourceRepo,
		groupRepo:    groupRepo,
		authz:        authz,
		generations:  generations,
	}
}

// CreateCode mints a view-only access code for a resource or a group.
// Only a subject holding Admin capability on the scope target may mint.
func (s *codeService) CreateCode(ctx context.Context, subject domain.Subject, scope domain.CodeScope, description string, expiresAt *time.Time) (*domain.AccessCode, error) {
	now := time.Now()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("expires_at must be in the future")
	}

	switch scope.Kind {
	case domain.ScopeResource:
		decision, err := s.authz.CheckAccess(ctx, subject, scope.ResourceID, domain.CapabilityAdmin)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, ErrUnauthorized
		}
	case domain.ScopeGroup:
		group, err := s.groupRepo.GetByID(ctx, scope.GroupID)
		if err != nil {
			return nil, err
		}
		ok, err := hasGroupAdmin(ctx, s.groupRepo, subject, group)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnauthorized
		}
	default:
		return nil, fmt.Errorf("invalid scope kind: %s", scope.Kind)
	}

	code := &domain.AccessCode{
		Code:        utils.GenerateAccessCode(),
		Description: description,
		CreatorID:   subject.UserID,
		Scope:       scope,
		IsActive:    true,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := s.codeRepo.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to create access code: %w", err)
	}
	return code, nil
}

// DeactivateCode flips is_active off. Every resource the code covers
// gets a new generation before the flip commits, so no delegation
// token minted against the old state survives the acknowledgement.
func (s *codeService) DeactivateCode(ctx context.Context, subject domain.Subject, code string) error {
	accessCode, err := s.codeRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if subject.Kind != domain.SubjectUser || accessCode.CreatorID != subject.UserID {
		return ErrUnauthorized
	}
	if !accessCode.IsActive {
		return nil
	}

	if err := s.bumpCoveredResources(ctx, accessCode); err != nil {
		return err
	}

	accessCode.IsActive = false
	if err := s.codeRepo.Update(ctx, accessCode); err != nil {
		return fmt.Errorf("failed to deactivate access code: %w", err)
	}
	return nil
}

func (s *codeService) bumpCoveredResources(ctx context.Context, accessCode *domain.AccessCode) error {
	switch accessCode.Scope.Kind {
	case domain.ScopeResource:
		if _, err := s.generations.Bump(ctx, accessCode.Scope.ResourceID); err != nil {
			return fmt.Errorf("failed to bump generation: %w", err)
		}
	case domain.ScopeGroup:
		resources, err := s.resourceRepo.ListByGroup(ctx, accessCode.Scope.GroupID)
		if err != nil {
			return fmt.Errorf("failed to list group resources: %w", err)
		}
		for _, resource := range resources {
			if _, err := s.generations.Bump(ctx, resource.ID); err != nil {
				return fmt.Errorf("failed to bump generation for %s: %w", resource.ID, err)
			}
		}
	}
	return nil
}
