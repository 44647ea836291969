package domain

import "time"

type GroupID string

type AccessGroup struct {
	ID        GroupID   `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   UserID    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMembership ties a user to a group with a single role. The
// storage layer keys memberships by (group, user), so duplicates should
// not occur; when they do, the highest role wins.
type GroupMembership struct {
	GroupID   GroupID   `json:"group_id"`
	UserID    UserID    `json:"user_id"`
	Role      Role      `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
}
