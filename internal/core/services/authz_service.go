package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// authzService combines the independent grant sources (ownership, group
// membership, access code, public visibility) into one decision per
// (subject, resource, required capability) triple. Sources are strictly
// additive: the highest granted capability wins, absence of a grant is
// never a veto.
type authzService struct {
	resourceRepo ports.ResourceRepository
	groupRepo    ports.GroupRepository
	codeRepo     ports.AccessCodeRepository
	metrics      *MetricsService
	now          func() time.Time
}

func NewAuthzService(
	resourceRepo ports.ResourceRepository,
	groupRepo ports.GroupRepository,
	codeRepo ports.AccessCodeRepository,
	metrics *MetricsService,
) ports.AuthzService {
	return &authzService{
		resourceRepo: resourceRepo,
		groupRepo:    groupRepo,
		codeRepo:     codeRepo,
		metrics:      metrics,
		now:          time.Now,
	}
}

func (s *authzService) CheckAccess(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, required domain.Capability) (domain.Decision, error) {
	ctx, span := otel.Tracer("mediagate/authz").Start(ctx, "authz.CheckAccess")
	defer span.End()
	span.SetAttributes(
		attribute.String("subject.kind", string(subject.Kind)),
		attribute.String("resource.id", string(resourceID)),
		attribute.String("capability.required", required.String()),
	)

	start := s.now()
	decision, err := s.checkAccess(ctx, subject, resourceID, required)
	if s.metrics != nil {
		s.metrics.RecordDecision(decision, err, s.now().Sub(start))
	}
	return decision, err
}

func (s *authzService) checkAccess(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, required domain.Capability) (domain.Decision, error) {
	resource, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		return domain.Decision{}, err
	}

	granted := domain.CapabilityNone
	var codeReason domain.DenyReason

	// Ownership grants Admin.
	if subject.Kind == domain.SubjectUser && resource.OwnerID == subject.UserID {
		granted = domain.MaxCapability(granted, domain.CapabilityAdmin)
	}

	// Group membership grants the role's capability.
	if subject.Kind == domain.SubjectUser && resource.InGroup() {
		membership, err := s.groupRepo.GetMembership(ctx, resource.GroupID, subject.UserID)
		switch {
		case err == nil:
			granted = domain.MaxCapability(granted, membership.Role.Capability())
		case errors.Is(err, domain.ErrMembershipNotFound):
			// no grant from this source
		default:
			return domain.Decision{}, fmt.Errorf("membership lookup: %w", err)
		}
	}

	// Access codes grant Read only, and fail closed with a specific
	// reason. The code is consulted whenever one was presented; under
	// max-combine it can only add access, never narrow it.
	if subject.Code != "" {
		capability, reason, err := s.evaluateCode(ctx, subject.Code, resource)
		if err != nil {
			return domain.Decision{}, err
		}
		if reason != "" {
			codeReason = reason
		} else {
			granted = domain.MaxCapability(granted, capability)
		}
	}

	// Public visibility grants Read to anyone.
	if resource.IsPublic {
		granted = domain.MaxCapability(granted, domain.CapabilityRead)
	}

	if granted.Implies(required) && granted != domain.CapabilityNone {
		return domain.Allow(granted), nil
	}
	return domain.Deny(denyReason(subject, granted, codeReason)), nil
}

func (s *authzService) evaluateCode(ctx context.Context, code string, resource *domain.Resource) (domain.Capability, domain.DenyReason, error) {
	accessCode, err := s.codeRepo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrCodeNotFound) {
		return domain.CapabilityNone, domain.DenyCodeNotFound, nil
	}
	if err != nil {
		return domain.CapabilityNone, "", fmt.Errorf("code lookup: %w", err)
	}
	if !accessCode.IsActive {
		return domain.CapabilityNone, domain.DenyCodeRevoked, nil
	}
	if accessCode.Expired(s.now()) {
		return domain.CapabilityNone, domain.DenyCodeExpired, nil
	}
	if !accessCode.Covers(resource) {
		return domain.CapabilityNone, domain.DenyCodeScopeMismatch, nil
	}
	// Codes are view-only: never above Read.
	return domain.CapabilityRead, "", nil
}

// denyReason picks the most specific reason for the boundary layer.
// Expired, revoked, not-found and scope-mismatch codes map to different
// HTTP statuses there, so they must not collapse into one another.
func denyReason(subject domain.Subject, granted domain.Capability, codeReason domain.DenyReason) domain.DenyReason {
	if granted > domain.CapabilityNone {
		if subject.Kind == domain.SubjectUser {
			return domain.DenyInsufficientRole
		}
		return domain.DenyInsufficientCapability
	}
	if codeReason != "" {
		return codeReason
	}
	switch subject.Kind {
	case domain.SubjectUser:
		return domain.DenyInsufficientRole
	case domain.SubjectCodeBearer:
		return domain.DenyInsufficientCapability
	default:
		return domain.DenyNoCredentials
	}
}

// ListResourcesForCode validates the code itself, then enumerates every
// resource the code currently covers. A valid code over an empty scope
// yields an empty slice, not an error.
func (s *authzService) ListResourcesForCode(ctx context.Context, code string) ([]*domain.Resource, domain.Decision, error) {
	accessCode, err := s.codeRepo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrCodeNotFound) {
		return nil, domain.Deny(domain.DenyCodeNotFound), nil
	}
	if err != nil {
		return nil, domain.Decision{}, fmt.Errorf("code lookup: %w", err)
	}
	if !accessCode.IsActive {
		return nil, domain.Deny(domain.DenyCodeRevoked), nil
	}
	if accessCode.Expired(s.now()) {
		return nil, domain.Deny(domain.DenyCodeExpired), nil
	}

	var resources []*domain.Resource
	switch accessCode.Scope.Kind {
	case domain.ScopeResource:
		resource, err := s.resourceRepo.GetByID(ctx, accessCode.Scope.ResourceID)
		if errors.Is(err, domain.ErrResourceNotFound) {
			break
		}
		if err != nil {
			return nil, domain.Decision{}, fmt.Errorf("resource lookup: %w", err)
		}
		resources = append(resources, resource)
	case domain.ScopeGroup:
		resources, err = s.resourceRepo.ListByGroup(ctx, accessCode.Scope.GroupID)
		if err != nil {
			return nil, domain.Decision{}, fmt.Errorf("group listing: %w", err)
		}
	}

	// Stable order: creation time, then id as the tiebreaker.
	sort.Slice(resources, func(i, j int) bool {
		if !resources[i].CreatedAt.Equal(resources[j].CreatedAt) {
			return resources[i].CreatedAt.Before(resources[j].CreatedAt)
		}
		return resources[i].ID < resources[j].ID
	})

	if resources == nil {
		resources = []*domain.Resource{}
	}
	return resources, domain.Allow(domain.CapabilityRead), nil
}
