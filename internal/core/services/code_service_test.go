package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/repositories/memory"
)

type managementFixture struct {
	*authzFixture
	generations     ports.GenerationStore
	resourceService ports.ResourceService
	groupService    ports.GroupService
	codeService     ports.CodeService
	delegation      *delegationService
}

func newManagementFixture(t *testing.T) *managementFixture {
	t.Helper()
	f := &managementFixture{
		authzFixture: newAuthzFixture(t),
		generations:  memory.NewMemoryGenerationStore(),
	}
	f.resourceService = NewResourceService(f.resourceRepo, f.groupRepo, f.service, f.generations)
	f.groupService = NewGroupService(f.groupRepo, f.resourceRepo, f.generations)
	f.codeService = NewCodeService(f.codeRepo, f.resourceRepo, f.groupRepo, f.service, f.generations)
	f.delegation = NewDelegationService(f.service, f.generations, "management-test-secret", 30*time.Minute, nil).(*delegationService)
	return f
}

func (f *managementFixture) addGroup(t *testing.T, id, owner string) {
	t.Helper()
	err := f.groupRepo.Create(context.Background(), &domain.AccessGroup{
		ID:        domain.GroupID(id),
		Name:      id,
		Slug:      id,
		OwnerID:   domain.UserID(owner),
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
}

func TestCreateCode_ResourceScope(t *testing.T) {
	f := newManagementFixture(t)
	f.addResource(t, "res_1", "alice", "", false)

	scope := domain.CodeScope{Kind: domain.ScopeResource, ResourceID: "res_1"}

	// Owner holds Admin on the resource and may mint.
	code, err := f.codeService.CreateCode(context.Background(), domain.UserSubject("alice"), scope, "review link", nil)
	if err != nil {
		t.Fatalf("CreateCode error: %v", err)
	}
	if code.Code == "" || !code.IsActive {
		t.Errorf("unexpected code: %+v", code)
	}
	if code.CreatorID != "alice" {
		t.Errorf("creator = %s, want alice", code.CreatorID)
	}

	// Anyone else does not.
	_, err = f.codeService.CreateCode(context.Background(), domain.UserSubject("bob"), scope, "", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestCreateCode_GroupScope(t *testing.T) {
	f := newManagementFixture(t)
	f.addGroup(t, "grp_1", "alice")
	f.addMembership(t, "grp_1", "carol", domain.RoleViewer)

	scope := domain.CodeScope{Kind: domain.ScopeGroup, GroupID: "grp_1"}

	if _, err := f.codeService.CreateCode(context.Background(), domain.UserSubject("alice"), scope, "", nil); err != nil {
		t.Errorf("group owner should mint: %v", err)
	}

	if _, err := f.codeService.CreateCode(context.Background(), domain.UserSubject("carol"), scope, "", nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("viewer minting: error = %v, want ErrUnauthorized", err)
	}

	if _, err := f.codeService.CreateCode(context.Background(), domain.UserSubject("alice"), domain.CodeScope{Kind: domain.ScopeGroup, GroupID: "missing"}, "", nil); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("missing group: error = %v, want ErrGroupNotFound", err)
	}
}

func TestCreateCode_RejectsPastExpiry(t *testing.T) {
	f := newManagementFixture(t)
	f.addResource(t, "res_1", "alice", "", false)

	past := time.Now().Add(-time.Minute)
	_, err := f.codeService.CreateCode(
		context.Background(),
		domain.UserSubject("alice"),
		domain.CodeScope{Kind: domain.ScopeResource, ResourceID: "res_1"},
		"",
		&past,
	)
	if err == nil {
		t.Error("past expiry should be rejected")
	}
}

func TestDeactivateCode_CreatorOnlyAndIdempotent(t *testing.T) {
	f := newManagementFixture(t)
	f.addResource(t, "res_1", "alice", "", false)

	code, err := f.codeService.CreateCode(
		context.Background(),
		domain.UserSubject("alice"),
		domain.CodeScope{Kind: domain.ScopeResource, ResourceID: "res_1"},
		"",
		nil,
	)
	if err != nil {
		t.Fatalf("CreateCode error: %v", err)
	}

	if err := f.codeService.DeactivateCode(context.Background(), domain.UserSubject("mallory"), code.Code); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("non-creator deactivation: error = %v, want ErrUnauthorized", err)
	}

	if err := f.codeService.DeactivateCode(context.Background(), domain.UserSubject("alice"), code.Code); err != nil {
		t.Fatalf("DeactivateCode error: %v", err)
	}

	// Second deactivation is a no-op, not an error.
	if err := f.codeService.DeactivateCode(context.Background(), domain.UserSubject("alice"), code.Code); err != nil {
		t.Errorf("repeat deactivation error: %v", err)
	}

	stored, err := f.codeRepo.GetByCode(context.Background(), code.Code)
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if stored.IsActive {
		t.Error("code still active after deactivation")
	}
}

func TestDeactivateCode_InvalidatesOutstandingTokens(t *testing.T) {
	f := newManagementFixture(t)
	f.addResource(t, "res_1", "owner", "grp_7", false)
	f.addGroup(t, "grp_7", "alice")

	code, err := f.codeService.CreateCode(
		context.Background(),
		domain.UserSubject("alice"),
		domain.CodeScope{Kind: domain.ScopeGroup, GroupID: "grp_7"},
		"",
		nil,
	)
	if err != nil {
		t.Fatalf("CreateCode error: %v", err)
	}

	bearer := domain.CodeSubject(code.Code)
	token, decision, err := f.delegation.IssueStreamToken(context.Background(), bearer, "res_1")
	if err != nil || !decision.Allowed {
		t.Fatalf("IssueStreamToken: decision=%+v err=%v", decision, err)
	}

	if err := f.codeService.DeactivateCode(context.Background(), domain.UserSubject("alice"), code.Code); err != nil {
		t.Fatalf("DeactivateCode error: %v", err)
	}

	// The bump landed before the flip committed, so the old token is
	// already stale and the fallback check denies.
	if f.delegation.ValidateStreamToken(context.Background(), token, bearer, "res_1") {
		t.Error("token minted before deactivation still validates")
	}
	_, decision, err = f.delegation.AuthorizeSegment(context.Background(), bearer, "res_1", token)
	if err != nil {
		t.Fatalf("AuthorizeSegment error: %v", err)
	}
	if decision.Allowed {
		t.Error("segment authorized after code deactivation")
	}
	if decision.Reason != domain.DenyCodeRevoked {
		t.Errorf("reason = %s, want %s", decision.Reason, domain.DenyCodeRevoked)
	}
}
