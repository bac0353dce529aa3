package auth

// Role is the closed set of roles a credential may carry.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// ParseRoles filters raw role strings from a credential down to the known set.
// Unknown values are dropped, never trusted verbatim.
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	seen := make(map[Role]struct{}, len(raw))
	for _, r := range raw {
		role := Role(r)
		switch role {
		case RoleUser, RoleAdmin, RoleModerator:
			if _, dup := seen[role]; dup {
				continue
			}
			seen[role] = struct{}{}
			roles = append(roles, role)
		}
	}
	return roles
}

// Identity is a verified principal: who the credential belongs to and which
// roles it carries.
type Identity struct {
	UserID string
	Roles  []Role
}

// HasRole reports whether the identity carries the given role.
func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleStrings returns the roles as plain strings for serialization.
func (i Identity) RoleStrings() []string {
	out := make([]string, len(i.Roles))
	for n, r := range i.Roles {
		out[n] = string(r)
	}
	return out
}
