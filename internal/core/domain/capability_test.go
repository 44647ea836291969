package domain

import "testing"

func TestCapabilityImplies(t *testing.T) {
	tests := []struct {
		name     string
		held     Capability
		required Capability
		want     bool
	}{
		{"read implies read", CapabilityRead, CapabilityRead, true},
		{"read does not imply download", CapabilityRead, CapabilityDownload, false},
		{"download implies read", CapabilityDownload, CapabilityRead, true},
		{"edit implies download", CapabilityEdit, CapabilityDownload, true},
		{"edit does not imply admin", CapabilityEdit, CapabilityAdmin, false},
		{"admin implies everything", CapabilityAdmin, CapabilityEdit, true},
		{"none implies nothing", CapabilityNone, CapabilityRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.held.Implies(tt.required); got != tt.want {
				t.Errorf("(%v).Implies(%v) = %v, want %v", tt.held, tt.required, got, tt.want)
			}
		})
	}
}

func TestRoleCapability(t *testing.T) {
	tests := []struct {
		role Role
		want Capability
	}{
		{RoleViewer, CapabilityRead},
		{RoleContributor, CapabilityDownload},
		{RoleEditor, CapabilityEdit},
		{RoleAdmin, CapabilityAdmin},
		{Role("unknown"), CapabilityNone},
	}

	for _, tt := range tests {
		if got := tt.role.Capability(); got != tt.want {
			t.Errorf("Role(%q).Capability() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestMaxCapability(t *testing.T) {
	if got := MaxCapability(); got != CapabilityNone {
		t.Errorf("MaxCapability() = %v, want none", got)
	}
	if got := MaxCapability(CapabilityRead, CapabilityAdmin, CapabilityDownload); got != CapabilityAdmin {
		t.Errorf("MaxCapability = %v, want admin", got)
	}
}

func TestSubjectFingerprint(t *testing.T) {
	a := UserSubject("user_1")
	b := UserSubject("user_2")
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different users must have different fingerprints")
	}
	if a.Fingerprint() != UserSubject("user_1").Fingerprint() {
		t.Error("fingerprint must be stable for the same subject")
	}
	if CodeSubject("abc").Fingerprint() == AnonymousSubject().Fingerprint() {
		t.Error("code bearer and anonymous must not collide")
	}
}
