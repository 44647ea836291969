package ports

import (
	"context"
	"time"

	"mediagate/internal/core/domain"
)

// AuthzService is the sole entry point for per-request authorization.
// A non-nil error means the decision is indeterminate (store failure);
// callers must treat indeterminate as deny.
type AuthzService interface {
	CheckAccess(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, required domain.Capability) (domain.Decision, error)
	ListResourcesForCode(ctx context.Context, code string) ([]*domain.Resource, domain.Decision, error)
}

// DelegationService authorizes a stream once and re-validates cheaply
// per segment fetch.
type DelegationService interface {
	IssueStreamToken(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID) (string, domain.Decision, error)
	ValidateStreamToken(ctx context.Context, token string, subject domain.Subject, resourceID domain.ResourceID) bool
	AuthorizeSegment(ctx context.Context, subject domain.Subject, resourceID domain.ResourceID, token string) (string, domain.Decision, error)
}

type ResourceService interface {
	Register(ctx context.Context, owner domain.UserID, kind domain.ResourceKind, title string, groupID domain.GroupID, isPublic bool) (*domain.Resource, error)
	Get(ctx context.Context, id domain.ResourceID) (*domain.Resource, error)
	SetVisibility(ctx context.Context, subject domain.Subject, id domain.ResourceID, isPublic bool) (*domain.Resource, error)
	AssignGroup(ctx context.Context, subject domain.Subject, id domain.ResourceID, groupID domain.GroupID) (*domain.Resource, error)
}

type GroupService interface {
	CreateGroup(ctx context.Context, owner domain.UserID, name string) (*domain.AccessGroup, error)
	SetMembership(ctx context.Context, subject domain.Subject, groupID domain.GroupID, userID domain.UserID, role domain.Role) error
	RemoveMembership(ctx context.Context, subject domain.Subject, groupID domain.GroupID, userID domain.UserID) error
}

type CodeService interface {
	CreateCode(ctx context.Context, subject domain.Subject, scope domain.CodeScope, description string, expiresAt *time.Time) (*domain.AccessCode, error)
	DeactivateCode(ctx context.Context, subject domain.Subject, code string) error
}
