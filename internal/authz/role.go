package authz

// Role bundles a default capability set with a visibility scope.
type Role struct {
	Name         string
	Wildcard     bool
	Capabilities Set
	Scope        Scope
}

// Clone returns an independent copy of the role.
func (r Role) Clone() Role {
	out := r
	out.Capabilities = r.Capabilities.Clone()
	return out
}

const (
	// RoleAdministrator bypasses all override logic. The comparison is
	// against this literal name and is not configurable.
	RoleAdministrator = "Administrator"
	// RoleGerente manages a single store.
	RoleGerente = "Gerente"
	// RoleFinanceiro handles receivables, payables and fiscal documents.
	RoleFinanceiro = "Financeiro"
	// RoleEstoquista handles stock for a single store.
	RoleEstoquista = "Estoquista"
	// RoleVendedor sells and sees only their own records.
	RoleVendedor = "Vendedor"
	// RoleEntregador delivers and sees only their own routes.
	RoleEntregador = "Entregador"
	// RoleConsulta is the most restrictive role: read-only over the
	// user's own records. Unknown role names resolve here so a
	// misconfigured account never silently gains access.
	RoleConsulta = "Consulta"
)

// DefaultRoleName is the fallback for unknown role names.
const DefaultRoleName = RoleConsulta

var staticRoles = map[string]Role{
	RoleAdministrator: {
		Name:     RoleAdministrator,
		Wildcard: true,
		Scope:    ScopeAll,
	},
	RoleGerente: {
		Name: RoleGerente,
		Capabilities: NewSet(
			CapViewVendas, CapCreateVendas, CapEditVendas, CapCancelVendas,
			CapViewClientes, CapManageClientes,
			CapViewEstoque, CapManageEstoque,
			CapViewEntregas, CapManageEntregas,
			CapViewFinanceiro,
			CapViewRelatorios,
			CapViewRH,
		),
		Scope: ScopeStore,
	},
	RoleFinanceiro: {
		Name: RoleFinanceiro,
		Capabilities: NewSet(
			CapViewVendas,
			CapViewClientes,
			CapViewFinanceiro, CapManageFinanceiro,
			CapViewFiscal, CapManageFiscal,
			CapViewRelatorios,
		),
		Scope: ScopeAll,
	},
	RoleEstoquista: {
		Name: RoleEstoquista,
		Capabilities: NewSet(
			CapViewEstoque, CapManageEstoque,
			CapViewEntregas,
		),
		Scope: ScopeStore,
	},
	RoleVendedor: {
		Name: RoleVendedor,
		Capabilities: NewSet(
			CapViewVendas, CapCreateVendas,
			CapViewClientes, CapManageClientes,
			CapViewEstoque,
		),
		Scope: ScopeOwn,
	},
	RoleEntregador: {
		Name: RoleEntregador,
		Capabilities: NewSet(
			CapViewEntregas, CapManageEntregas,
		),
		Scope: ScopeOwn,
	},
	RoleConsulta: {
		Name: RoleConsulta,
		Capabilities: NewSet(
			CapViewVendas,
		),
		Scope: ScopeOwn,
	},
}

// StaticRoleNames lists the built-in role names in no particular order.
func StaticRoleNames() []string {
	out := make([]string, 0, len(staticRoles))
	for name := range staticRoles {
		out = append(out, name)
	}
	return out
}
