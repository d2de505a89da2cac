package authz

// Scope is the row-visibility tier applied after capability checks.
type Scope string

const (
	// ScopeAll disables row filtering.
	ScopeAll Scope = "ALL"
	// ScopeStore restricts rows to the user's assigned store.
	ScopeStore Scope = "STORE"
	// ScopeOwn restricts rows to those owned by the user.
	ScopeOwn Scope = "OWN"
)

// ParseScope maps a stored scope value to the enum. Anything
// unrecognized collapses to ScopeOwn, the most restrictive tier.
func ParseScope(raw string) Scope {
	switch Scope(raw) {
	case ScopeAll, ScopeStore, ScopeOwn:
		return Scope(raw)
	default:
		return ScopeOwn
	}
}
