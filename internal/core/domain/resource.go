package domain

import "time"

type ResourceID string
type UserID string

type ResourceKind string

const (
	ResourceKindVideo ResourceKind = "video"
	ResourceKindImage ResourceKind = "image"
)

// Resource is a registered media item. OwnerID is the created-by
// relation; GroupID, when set, assigns the resource to at most one
// access group.
type Resource struct {
	ID        ResourceID   `json:"id"`
	Kind      ResourceKind `json:"kind"`
	Title     string       `json:"title"`
	OwnerID   UserID       `json:"owner_id"`
	GroupID   GroupID      `json:"group_id,omitempty"`
	IsPublic  bool         `json:"is_public"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// InGroup reports whether the resource is currently assigned to a group.
func (r *Resource) InGroup() bool {
	return r.GroupID != ""
}
