package authz

import "testing"

func newTestPolicy() *Policy {
	return NewPolicy(StaticSource{}, nil)
}

func TestAdministratorBypassesOverrides(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:    "1",
		Email: "admin@moveispedroii.com.br",
		Role:  RoleAdministrator,
		Permissions: CustomPermissions{
			Inherit: true,
			Denied:  Catalog().Values(),
		},
	}
	for _, c := range Catalog().Values() {
		if !policy.Can(user, c) {
			t.Fatalf("administrator denied %q", c)
		}
	}
	if got := policy.ScopeOf(user); got != ScopeAll {
		t.Fatalf("administrator scope = %q, want ALL", got)
	}
}

func TestWildcardRoleResolvesToScopeAll(t *testing.T) {
	// A matrix edit can hand a custom role the wildcard together with a
	// narrower scope; the wildcard bypass must still widen it to ALL.
	persisted := mapSource{
		"SuperGerente": {
			Name:         "SuperGerente",
			Wildcard:     true,
			Capabilities: NewSet(),
			Scope:        ScopeStore,
		},
	}
	policy := NewPolicy(ChainSource{persisted, StaticSource{}}, nil)
	user := &User{ID: "3", Role: "SuperGerente", Permissions: DefaultCustomPermissions()}

	if !policy.Can(user, CapManageUsuarios) {
		t.Fatal("wildcard role denied a capability")
	}
	if got := policy.ScopeOf(user); got != ScopeAll {
		t.Fatalf("wildcard role scope = %q, want ALL", got)
	}
}

func TestDenyBeatsAllow(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:   "7",
		Role: RoleVendedor,
		Permissions: CustomPermissions{
			Inherit: true,
			Allowed: []Capability{CapViewFinanceiro},
			Denied:  []Capability{CapViewFinanceiro},
		},
	}
	if policy.Can(user, CapViewFinanceiro) {
		t.Fatal("capability granted despite deny entry")
	}
}

func TestNonInheritIsolation(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:   "7",
		Role: RoleVendedor,
		Permissions: CustomPermissions{
			Inherit: false,
			Allowed: []Capability{CapViewEntregas},
		},
	}
	if !policy.Can(user, CapViewEntregas) {
		t.Fatal("allow-list capability denied")
	}
	// Role defaults must not leak through when inherit is off.
	if policy.Can(user, CapViewVendas) {
		t.Fatal("role default leaked through inherit=false")
	}
}

func TestDenyUnknownCapabilityIsNoop(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:   "7",
		Role: RoleVendedor,
		Permissions: CustomPermissions{
			Inherit: true,
			Denied:  []Capability{"nunca_concedida"},
		},
	}
	if !policy.Can(user, CapViewVendas) {
		t.Fatal("denying an ungranted capability disturbed the role defaults")
	}
}

func TestAllowPreservesUncataloguedCapability(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:   "7",
		Role: RoleVendedor,
		Permissions: CustomPermissions{
			Inherit: true,
			Allowed: []Capability{"beta_dashboard"},
		},
	}
	eff := policy.Resolve(user)
	if !eff.Has("beta_dashboard") {
		t.Fatal("forward-compatible allow entry dropped")
	}
	if Catalog().Has("beta_dashboard") {
		t.Fatal("allow entry leaked into the closed catalog")
	}
}

func TestVendedorEndToEnd(t *testing.T) {
	policy := newTestPolicy()
	user := &User{
		ID:    "42",
		Email: "vendedor@moveispedroii.com.br",
		Role:  RoleVendedor,
		Permissions: CustomPermissions{
			Inherit: true,
			Allowed: []Capability{CapViewFinanceiro},
			Denied:  []Capability{CapCreateVendas},
		},
	}
	if policy.Can(user, CapCreateVendas) {
		t.Fatal("denied capability still granted")
	}
	if !policy.Can(user, CapViewFinanceiro) {
		t.Fatal("allowed capability not granted")
	}
	if !policy.Can(user, CapViewVendas) {
		t.Fatal("inherited role default not granted")
	}
	if got := policy.ScopeOf(user); got != ScopeOwn {
		t.Fatalf("scope = %q, want OWN", got)
	}
}

func TestParseCustomPermissions(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"null", "null"},
		{"malformed", `{"inherit": "yes", "allowed": 3}`},
		{"garbage", "not json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseCustomPermissions([]byte(tc.raw))
			if !got.Inherit || len(got.Allowed) != 0 || len(got.Denied) != 0 {
				t.Fatalf("expected documented defaults, got %+v", got)
			}
		})
	}

	got := ParseCustomPermissions([]byte(`{"inherit": false, "allowed": ["view_clientes", ""], "denied": ["create_vendas"]}`))
	if got.Inherit {
		t.Fatal("inherit flag not decoded")
	}
	if len(got.Allowed) != 1 || got.Allowed[0] != CapViewClientes {
		t.Fatalf("allowed = %v", got.Allowed)
	}
	if len(got.Denied) != 1 || got.Denied[0] != CapCreateVendas {
		t.Fatalf("denied = %v", got.Denied)
	}
}
