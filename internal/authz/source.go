package authz

// RoleSource resolves a role name to its policy bundle. Implementations
// must be safe for concurrent use and must return copies, never shared
// mutable state.
type RoleSource interface {
	Role(name string) (Role, bool)
}

// StaticSource serves the built-in role table.
type StaticSource struct{}

// Role looks up a built-in role by exact name.
func (StaticSource) Role(name string) (Role, bool) {
	role, ok := staticRoles[name]
	if !ok {
		return Role{}, false
	}
	return role.Clone(), true
}

// ChainSource consults sources in order and returns the first hit. It
// backs the persisted-overrides-then-static lookup: an administrator-edited
// permission matrix is tried first and the static table answers when the
// matrix is absent or unreachable.
type ChainSource []RoleSource

// Role returns the first source's answer for name. The administrator role
// is always answered by the last (static) tier so a persisted override can
// never demote it.
func (c ChainSource) Role(name string) (Role, bool) {
	if name == RoleAdministrator {
		if len(c) == 0 {
			return StaticSource{}.Role(name)
		}
		return c[len(c)-1].Role(name)
	}
	for _, src := range c {
		if src == nil {
			continue
		}
		if role, ok := src.Role(name); ok {
			return role, true
		}
	}
	return Role{}, false
}
