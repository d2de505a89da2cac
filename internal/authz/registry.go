package authz

// Feature is a navigable area of the application gated by a capability.
// The registry only drives which entries the frontend shows and feeds the
// closed capability catalog; rendering is not this package's concern.
type Feature struct {
	Capability Capability `json:"capability"`
	Path       string     `json:"path"`
	Title      string     `json:"title"`
	Menu       string     `json:"menu"`
}

var features = []Feature{
	{Capability: CapViewVendas, Path: "/vendas", Title: "Vendas", Menu: "vendas"},
	{Capability: CapCreateVendas, Path: "/vendas/nova", Title: "Nova Venda", Menu: "vendas"},
	{Capability: CapViewClientes, Path: "/clientes", Title: "Clientes", Menu: "vendas"},
	{Capability: CapViewEstoque, Path: "/estoque", Title: "Estoque", Menu: "estoque"},
	{Capability: CapManageEstoque, Path: "/estoque/ajustes", Title: "Ajustes de Estoque", Menu: "estoque"},
	{Capability: CapViewEntregas, Path: "/entregas", Title: "Entregas", Menu: "logistica"},
	{Capability: CapViewFinanceiro, Path: "/financeiro", Title: "Financeiro", Menu: "financeiro"},
	{Capability: CapViewFiscal, Path: "/fiscal", Title: "Documentos Fiscais", Menu: "financeiro"},
	{Capability: CapViewRH, Path: "/rh", Title: "Recursos Humanos", Menu: "rh"},
	{Capability: CapViewRelatorios, Path: "/relatorios", Title: "Relatórios", Menu: "relatorios"},
	{Capability: CapManageUsuarios, Path: "/admin/usuarios", Title: "Usuários", Menu: "admin"},
	{Capability: CapManagePermissoes, Path: "/admin/permissoes", Title: "Permissões", Menu: "admin"},
}

// Features returns the full static registry.
func Features() []Feature {
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}

// NavigableFor returns the features the user may open, in registry order.
func NavigableFor(p *Policy, user *User) []Feature {
	out := make([]Feature, 0, len(features))
	for _, f := range features {
		if p.Can(user, f.Capability) {
			out = append(out, f)
		}
	}
	return out
}
