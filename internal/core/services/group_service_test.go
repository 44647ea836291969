package services

import (
	"context"
	"errors"
	"testing"

	"mediagate/internal/core/domain"
)

func TestCreateGroup(t *testing.T) {
	f := newManagementFixture(t)

	group, err := f.groupService.CreateGroup(context.Background(), "alice", "Design Team")
	if err != nil {
		t.Fatalf("CreateGroup error: %v", err)
	}
	if group.OwnerID != "alice" {
		t.Errorf("owner = %s, want alice", group.OwnerID)
	}
	if group.Slug != "design-team" {
		t.Errorf("slug = %s, want design-team", group.Slug)
	}

	// The creator administers the group from the start.
	membership, err := f.groupRepo.GetMembership(context.Background(), group.ID, "alice")
	if err != nil {
		t.Fatalf("GetMembership error: %v", err)
	}
	if membership.Role != domain.RoleAdmin {
		t.Errorf("creator role = %s, want admin", membership.Role)
	}
}

func TestCreateGroup_RequiresOwner(t *testing.T) {
	f := newManagementFixture(t)

	if _, err := f.groupService.CreateGroup(context.Background(), "", "nameless"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestSetMembership_AdminGate(t *testing.T) {
	f := newManagementFixture(t)
	f.addGroup(t, "grp_1", "alice")
	f.addMembership(t, "grp_1", "bob", domain.RoleEditor)

	// Group owner may assign roles.
	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "carol", domain.RoleViewer); err != nil {
		t.Errorf("owner SetMembership error: %v", err)
	}

	// Editors may not.
	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("bob"), "grp_1", "dave", domain.RoleViewer); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("editor SetMembership: error = %v, want ErrUnauthorized", err)
	}

	// Admin-role members may.
	f.addMembership(t, "grp_1", "erin", domain.RoleAdmin)
	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("erin"), "grp_1", "dave", domain.RoleViewer); err != nil {
		t.Errorf("admin member SetMembership error: %v", err)
	}

	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "dave", domain.Role("owner")); err == nil {
		t.Error("invalid role should be rejected")
	}
}

func TestSetMembership_DowngradeBumpsGeneration(t *testing.T) {
	f := newManagementFixture(t)
	f.addGroup(t, "grp_1", "alice")
	f.addResource(t, "res_1", "someone", "grp_1", false)
	f.addMembership(t, "grp_1", "bob", domain.RoleEditor)

	before, err := f.generations.Current(context.Background(), "res_1")
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}

	// An upgrade revokes nothing and must not churn generations.
	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "bob", domain.RoleAdmin); err != nil {
		t.Fatalf("SetMembership error: %v", err)
	}
	after, _ := f.generations.Current(context.Background(), "res_1")
	if after != before {
		t.Errorf("upgrade bumped generation: %d -> %d", before, after)
	}

	// A downgrade does.
	if err := f.groupService.SetMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "bob", domain.RoleViewer); err != nil {
		t.Fatalf("SetMembership error: %v", err)
	}
	after, _ = f.generations.Current(context.Background(), "res_1")
	if after <= before {
		t.Errorf("downgrade did not bump generation: %d -> %d", before, after)
	}
}

func TestRemoveMembership(t *testing.T) {
	f := newManagementFixture(t)
	f.addGroup(t, "grp_1", "alice")
	f.addResource(t, "res_1", "someone", "grp_1", false)
	f.addMembership(t, "grp_1", "bob", domain.RoleEditor)

	// Non-admins cannot remove members.
	if err := f.groupService.RemoveMembership(context.Background(), domain.UserSubject("bob"), "grp_1", "bob"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}

	before, _ := f.generations.Current(context.Background(), "res_1")

	if err := f.groupService.RemoveMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "bob"); err != nil {
		t.Fatalf("RemoveMembership error: %v", err)
	}

	// The removal revoked bob's grant, so the generation moved.
	after, _ := f.generations.Current(context.Background(), "res_1")
	if after <= before {
		t.Errorf("removal did not bump generation: %d -> %d", before, after)
	}

	// And the decision engine agrees immediately.
	decision, err := f.service.CheckAccess(context.Background(), domain.UserSubject("bob"), "res_1", domain.CapabilityRead)
	if err != nil {
		t.Fatalf("CheckAccess error: %v", err)
	}
	if decision.Allowed {
		t.Error("removed member still has access")
	}
}

func TestRemoveMembership_MissingMembershipLeavesGenerations(t *testing.T) {
	f := newManagementFixture(t)
	f.addGroup(t, "grp_1", "alice")
	f.addResource(t, "res_1", "someone", "grp_1", false)

	before, err := f.generations.Current(context.Background(), "res_1")
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}

	// carol was never a member; nothing is revoked, so no outstanding
	// stream token may be invalidated.
	err = f.groupService.RemoveMembership(context.Background(), domain.UserSubject("alice"), "grp_1", "carol")
	if !errors.Is(err, domain.ErrMembershipNotFound) {
		t.Errorf("error = %v, want ErrMembershipNotFound", err)
	}

	after, err := f.generations.Current(context.Background(), "res_1")
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if after != before {
		t.Errorf("no-op removal bumped generation: %d -> %d", before, after)
	}
}
