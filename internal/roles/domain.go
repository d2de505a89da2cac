package roles

import (
	"time"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

// Override is an administrator-edited row of the permission matrix. It
// replaces the static defaults for one role; roles without an override
// keep the built-in policy.
type Override struct {
	Role         string
	Capabilities []string
	// Scope overrides the role's visibility tier when set.
	Scope     *string
	UpdatedAt time.Time
}

// AuthzRole converts the override into the decision layer's role bundle.
// The scope falls back to the static definition for known roles and to
// OWN for roles that exist only in the matrix.
func (o Override) AuthzRole() authz.Role {
	role := authz.Role{Name: o.Role, Capabilities: authz.NewSet(), Scope: authz.ScopeOwn}
	if static, ok := (authz.StaticSource{}).Role(o.Role); ok {
		role.Scope = static.Scope
	}
	if o.Scope != nil {
		role.Scope = authz.ParseScope(*o.Scope)
	}
	for _, name := range o.Capabilities {
		if name == string(authz.Wildcard) {
			role.Wildcard = true
			continue
		}
		role.Capabilities.Add(authz.Capability(name))
	}
	return role
}
