package authz

import "log/slog"

// Policy is the authorization decision API. Can, ScopeOf and the row
// filter are deterministic functions of their inputs, perform no I/O and
// are safe for concurrent use.
type Policy struct {
	source RoleSource
	logger *slog.Logger
}

// NewPolicy builds a Policy over the given role source. A nil source
// falls back to the static role table; a nil logger disables anomaly
// logging.
func NewPolicy(source RoleSource, logger *slog.Logger) *Policy {
	return &Policy{source: source, logger: logger}
}

// Can reports whether the user holds the capability. A nil user is always
// denied; administrators are always granted. Unknown capabilities and
// unknown roles degrade to deny, never to an error.
func (p *Policy) Can(user *User, capability Capability) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdministrator {
		return true
	}
	return p.Resolve(user).Has(capability)
}

// ScopeOf returns the user's row-visibility scope. A nil user resolves to
// ScopeOwn, the fail-closed default.
func (p *Policy) ScopeOf(user *User) Scope {
	if user == nil {
		return ScopeOwn
	}
	return p.Resolve(user).Scope
}
