package authz

// Effective is the resolved, per-user permission set. It is derived on
// every query and never persisted.
type Effective struct {
	Wildcard     bool
	Capabilities Set
	Scope        Scope
}

// Has reports whether the effective set grants c.
func (e Effective) Has(c Capability) bool {
	return e.Wildcard || e.Capabilities.Has(c)
}

// Resolve combines the user's role defaults with their individual
// allow/deny overrides.
//
// Administrators and wildcard roles bypass the override logic entirely:
// a deny-list on an administrator has no effect and the scope is always
// ALL, even when a matrix override pins the role to something narrower.
// For everyone else the
// basis is the role's default set (or the empty set when inherit is off),
// allow entries are added, and deny entries are removed last — deny wins
// over allow and over role defaults, unconditionally.
func (p *Policy) Resolve(user *User) Effective {
	if user == nil {
		return Effective{Capabilities: NewSet(), Scope: ScopeOwn}
	}
	role := p.roleFor(user.Role)
	if user.Role == RoleAdministrator || role.Wildcard {
		return Effective{Wildcard: true, Scope: ScopeAll}
	}

	base := role.Capabilities.Clone()
	if !user.Permissions.Inherit {
		base = NewSet()
	}
	for _, c := range user.Permissions.Allowed {
		base.Add(c)
	}
	for _, c := range user.Permissions.Denied {
		base.Remove(c)
	}
	return Effective{Capabilities: base, Scope: role.Scope}
}

// roleFor resolves a role name through the configured source, falling
// back to the most restrictive built-in role for unknown names.
func (p *Policy) roleFor(name string) Role {
	src := p.source
	if src == nil {
		src = StaticSource{}
	}
	if role, ok := src.Role(name); ok {
		return role
	}
	fallback, _ := StaticSource{}.Role(DefaultRoleName)
	return fallback
}
