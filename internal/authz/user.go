package authz

import "encoding/json"

// CustomPermissions is a per-user override on top of the role defaults.
// The zero value is NOT the documented default; use
// DefaultCustomPermissions or ParseCustomPermissions.
type CustomPermissions struct {
	// Inherit keeps the role's default capability set as the basis.
	// When false the allow-list becomes the entire basis.
	Inherit bool
	// Allowed capabilities are added on top of the basis.
	Allowed []Capability
	// Denied capabilities are removed last and win unconditionally.
	Denied []Capability
}

// DefaultCustomPermissions returns the documented default:
// inherit everything, no overrides.
func DefaultCustomPermissions() CustomPermissions {
	return CustomPermissions{Inherit: true}
}

// ParseCustomPermissions normalizes a loosely shaped JSON blob into a
// CustomPermissions value. Missing fields, empty input and malformed JSON
// all collapse to the default; the resolver never branches on "is this
// field present".
func ParseCustomPermissions(raw []byte) CustomPermissions {
	out := DefaultCustomPermissions()
	if len(raw) == 0 {
		return out
	}
	var decoded struct {
		Inherit *bool    `json:"inherit"`
		Allowed []string `json:"allowed"`
		Denied  []string `json:"denied"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return out
	}
	if decoded.Inherit != nil {
		out.Inherit = *decoded.Inherit
	}
	out.Allowed = toCapabilities(decoded.Allowed)
	out.Denied = toCapabilities(decoded.Denied)
	return out
}

func toCapabilities(names []string) []Capability {
	if len(names) == 0 {
		return nil
	}
	out := make([]Capability, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		out = append(out, Capability(name))
	}
	return out
}

// User is the authenticated actor as seen by the decision layer. The
// session/identity provider resolves it once per request; the core trusts
// it as-is and performs no credential validation.
type User struct {
	// ID is the opaque account identifier, stringified.
	ID string
	// Email is the login identifier. Records created through some entry
	// paths stamp the email rather than the ID as the owner marker.
	Email string
	// Role is the role name; unknown names resolve to DefaultRoleName.
	Role string
	// Store is the assigned store code, empty when unassigned.
	Store string
	// Permissions is the per-user override, already normalized.
	Permissions CustomPermissions
}
