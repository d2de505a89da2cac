// Package authz implements the role/permission/scope authorization core.
//
// The package is a pure decision layer: callers resolve the authenticated
// user up front and pass it in as plain data. Every ambiguous or malformed
// input degrades to the most restrictive outcome instead of failing.
package authz

import "sort"

// Capability names one gated action or view.
type Capability string

// Wildcard grants every capability.
const Wildcard Capability = "*"

// Capabilities gating the retail modules.
const (
	CapViewVendas   Capability = "view_vendas"
	CapCreateVendas Capability = "create_vendas"
	CapEditVendas   Capability = "edit_vendas"
	CapCancelVendas Capability = "cancel_vendas"

	CapViewClientes   Capability = "view_clientes"
	CapManageClientes Capability = "manage_clientes"

	CapViewEstoque   Capability = "view_estoque"
	CapManageEstoque Capability = "manage_estoque"

	CapViewEntregas   Capability = "view_entregas"
	CapManageEntregas Capability = "manage_entregas"

	CapViewFinanceiro   Capability = "view_financeiro"
	CapManageFinanceiro Capability = "manage_financeiro"

	CapViewFiscal   Capability = "view_fiscal"
	CapManageFiscal Capability = "manage_fiscal"

	CapViewRH   Capability = "view_rh"
	CapManageRH Capability = "manage_rh"

	CapViewRelatorios Capability = "view_relatorios"

	CapManageUsuarios   Capability = "manage_usuarios"
	CapManagePermissoes Capability = "manage_permissoes"
)

// Set is an unordered collection of capabilities.
type Set map[Capability]struct{}

// NewSet builds a Set from the given capabilities.
func NewSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Add inserts c.
func (s Set) Add(c Capability) {
	if c != "" {
		s[c] = struct{}{}
	}
}

// Remove deletes c. Removing an absent capability is a no-op.
func (s Set) Remove(c Capability) {
	delete(s, c)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Values returns the capabilities in lexical order.
func (s Set) Values() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Catalog returns the closed capability catalog: the union of every
// capability referenced by a built-in role or a registered feature.
// The returned set is a copy; callers may mutate it freely.
func Catalog() Set {
	out := make(Set)
	for _, role := range staticRoles {
		for c := range role.Capabilities {
			out[c] = struct{}{}
		}
	}
	for _, f := range features {
		out[f.Capability] = struct{}{}
	}
	return out
}
