package domain

// Capability is an ordered permission level. A grant of a capability
// implies every capability below it.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityRead
	CapabilityDownload
	CapabilityEdit
	CapabilityAdmin
)

// Implies reports whether a held capability satisfies a required one.
func (c Capability) Implies(required Capability) bool {
	return c >= required
}

func (c Capability) String() string {
	switch c {
	case CapabilityRead:
		return "read"
	case CapabilityDownload:
		return "download"
	case CapabilityEdit:
		return "edit"
	case CapabilityAdmin:
		return "admin"
	default:
		return "none"
	}
}

type Role string

const (
	RoleViewer      Role = "viewer"
	RoleContributor Role = "contributor"
	RoleEditor      Role = "editor"
	RoleAdmin       Role = "admin"
)

// roleCapabilities is the fixed role mapping. Never overridden per group
// or per resource.
var roleCapabilities = map[Role]Capability{
	RoleViewer:      CapabilityRead,
	RoleContributor: CapabilityDownload,
	RoleEditor:      CapabilityEdit,
	RoleAdmin:       CapabilityAdmin,
}

// Capability returns the capability granted by a role. Unknown roles
// grant nothing.
func (r Role) Capability() Capability {
	return roleCapabilities[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// MaxCapability returns the highest of the given capabilities.
func MaxCapability(caps ...Capability) Capability {
	max := CapabilityNone
	for _, c := range caps {
		if c > max {
			max = c
		}
	}
	return max
}
