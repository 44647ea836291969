package domain

// DenyReason distinguishes why access was refused. The reason survives
// to the HTTP boundary, where expired codes and scope mismatches map to
// different statuses.
type DenyReason string

const (
	DenyNoCredentials          DenyReason = "no_credentials"
	DenyInsufficientRole       DenyReason = "insufficient_role"
	DenyInsufficientCapability DenyReason = "insufficient_capability"
	DenyCodeExpired            DenyReason = "code_expired"
	DenyCodeRevoked            DenyReason = "code_revoked"
	DenyCodeNotFound           DenyReason = "code_not_found"
	DenyCodeScopeMismatch      DenyReason = "code_scope_mismatch"
)

// Decision is the outcome of one authorization check. Produced fresh
// per request and never cached by the engine; the streaming delegation
// layer is the only sanctioned, time-bounded cache of an Allow.
type Decision struct {
	Allowed    bool       `json:"allowed"`
	Capability Capability `json:"capability,omitempty"`
	Reason     DenyReason `json:"reason,omitempty"`
}

func Allow(granted Capability) Decision {
	return Decision{Allowed: true, Capability: granted}
}

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
