package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

type mockRepository struct {
	overrides map[string]Override
	listError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{overrides: make(map[string]Override)}
}

func (m *mockRepository) ListOverrides(ctx context.Context) ([]Override, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]Override, 0, len(m.overrides))
	for _, o := range m.overrides {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockRepository) Upsert(ctx context.Context, override Override) error {
	override.UpdatedAt = time.Now()
	m.overrides[override.Role] = override
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, role string) error {
	delete(m.overrides, role)
	return nil
}

func newTestService(t *testing.T, repo RepositoryPort) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, client, nil, nil, time.Minute)
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	repo := newMockRepository()
	scope := "STORE"
	require.NoError(t, repo.Upsert(context.Background(), Override{
		Role:         authz.RoleVendedor,
		Capabilities: []string{"view_vendas", "view_financeiro"},
		Scope:        &scope,
	}))

	svc := newTestService(t, repo)
	require.NoError(t, svc.Refresh(context.Background()))

	role, ok := svc.Role(authz.RoleVendedor)
	require.True(t, ok)
	assert.True(t, role.Capabilities.Has(authz.CapViewFinanceiro))
	assert.Equal(t, authz.ScopeStore, role.Scope)

	_, ok = svc.Role(authz.RoleGerente)
	assert.False(t, ok, "roles without overrides must miss so the static tier answers")
}

func TestRefreshFallsBackToCacheOnDatabaseFailure(t *testing.T) {
	repo := newMockRepository()
	require.NoError(t, repo.Upsert(context.Background(), Override{
		Role:         authz.RoleEstoquista,
		Capabilities: []string{"view_estoque"},
	}))

	svc := newTestService(t, repo)
	require.NoError(t, svc.Refresh(context.Background()))

	repo.listError = errors.New("connection refused")
	require.NoError(t, svc.Refresh(context.Background()), "cache should cover database outage")

	role, ok := svc.Role(authz.RoleEstoquista)
	require.True(t, ok)
	assert.True(t, role.Capabilities.Has(authz.CapViewEstoque))
}

func TestRefreshErrorWithoutCacheKeepsLastSnapshot(t *testing.T) {
	repo := newMockRepository()
	require.NoError(t, repo.Upsert(context.Background(), Override{
		Role:         authz.RoleEntregador,
		Capabilities: []string{"view_entregas"},
	}))

	svc := NewService(repo, nil, nil, nil, time.Minute)
	require.NoError(t, svc.Refresh(context.Background()))

	repo.listError = errors.New("connection refused")
	require.Error(t, svc.Refresh(context.Background()))

	role, ok := svc.Role(authz.RoleEntregador)
	require.True(t, ok, "last good snapshot must survive a failed refresh")
	assert.True(t, role.Capabilities.Has(authz.CapViewEntregas))
}

func TestSaveRejectsAdministrator(t *testing.T) {
	svc := newTestService(t, newMockRepository())
	err := svc.Save(context.Background(), 1, Override{
		Role:         authz.RoleAdministrator,
		Capabilities: []string{"view_vendas"},
	})
	assert.ErrorIs(t, err, ErrAdministratorImmutable)
}

func TestSaveNormalizesScopeAndRefreshes(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(t, repo)

	scope := "REGIONAL"
	require.NoError(t, svc.Save(context.Background(), 1, Override{
		Role:         authz.RoleVendedor,
		Capabilities: []string{"view_vendas"},
		Scope:        &scope,
	}))

	role, ok := svc.Role(authz.RoleVendedor)
	require.True(t, ok)
	assert.Equal(t, authz.ScopeOwn, role.Scope, "unrecognized scope must collapse to OWN")
}

func TestPolicyWithPersistedTier(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(t, repo)
	require.NoError(t, svc.Save(context.Background(), 1, Override{
		Role:         authz.RoleVendedor,
		Capabilities: []string{"view_vendas", "view_relatorios"},
	}))

	policy := authz.NewPolicy(authz.ChainSource{svc, authz.StaticSource{}}, nil)
	user := &authz.User{ID: "5", Role: authz.RoleVendedor, Permissions: authz.DefaultCustomPermissions()}

	assert.True(t, policy.Can(user, authz.CapViewRelatorios), "persisted grant missing")
	assert.False(t, policy.Can(user, authz.CapCreateVendas), "static default survived the override")

	admin := &authz.User{ID: "1", Role: authz.RoleAdministrator}
	assert.True(t, policy.Can(admin, authz.CapManagePermissoes))
	assert.Equal(t, authz.ScopeAll, policy.ScopeOf(admin))
}
