package domain

import "time"

type ScopeKind string

const (
	ScopeResource ScopeKind = "resource"
	ScopeGroup    ScopeKind = "group"
)

// CodeScope is what an access code covers: a single resource, or every
// resource currently assigned to a group. Group membership is evaluated
// at access time, not frozen at code creation.
type CodeScope struct {
	Kind       ScopeKind  `json:"kind"`
	ResourceID ResourceID `json:"resource_id,omitempty"`
	GroupID    GroupID    `json:"group_id,omitempty"`
}

// AccessCode is a time-bound, view-only credential. A nil ExpiresAt
// means the code never expires; IsActive is the explicit revocation
// switch, independent of expiry.
type AccessCode struct {
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	CreatorID   UserID     `json:"creator_id"`
	Scope       CodeScope  `json:"scope"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the code has lapsed at the given instant.
func (c *AccessCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Covers reports whether the code's scope reaches the resource, given
// the resource's current group assignment.
func (c *AccessCode) Covers(r *Resource) bool {
	switch c.Scope.Kind {
	case ScopeResource:
		return c.Scope.ResourceID == r.ID
	case ScopeGroup:
		return r.InGroup() && c.Scope.GroupID == r.GroupID
	default:
		return false
	}
}
