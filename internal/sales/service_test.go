package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

type mockRepository struct {
	vendas   map[int64]*Venda
	clientes map[int64]*Cliente
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		vendas:   make(map[int64]*Venda),
		clientes: make(map[int64]*Cliente),
		nextID:   1,
	}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Venda, error) {
	out := make([]Venda, 0, len(m.vendas))
	for id := int64(1); id < m.nextID; id++ {
		if v, ok := m.vendas[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Venda, error) {
	v, ok := m.vendas[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *v
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, venda Venda) (int64, error) {
	venda.ID = m.nextID
	venda.Numero = "T-000001"
	m.vendas[venda.ID] = &venda
	m.nextID++
	return venda.ID, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status VendaStatus) error {
	v, ok := m.vendas[id]
	if !ok {
		return assert.AnError
	}
	v.Status = status
	return nil
}

func (m *mockRepository) SearchClientes(ctx context.Context, foldedQuery string, limit int) ([]Cliente, error) {
	out := make([]Cliente, 0, len(m.clientes))
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.clientes[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockRepository) CreateCliente(ctx context.Context, cliente Cliente) (int64, error) {
	cliente.ID = m.nextID
	m.clientes[cliente.ID] = &cliente
	m.nextID++
	return cliente.ID, nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	policy := authz.NewPolicy(authz.StaticSource{}, nil)
	return NewService(repo, policy), repo
}

func seedVendas(t *testing.T, repo *mockRepository) {
	t.Helper()
	seed := []Venda{
		{VendedorID: 10, CreatedBy: "ana@mp2.com.br", LojaID: "centro", Status: VendaStatusAberta, Total: 1500},
		{VendedorID: 11, CreatedBy: "bruno@mp2.com.br", LojaID: "centro", Status: VendaStatusAberta, Total: 800},
		{VendedorID: 12, CreatedBy: "carla@mp2.com.br", LojaID: "norte", Status: VendaStatusFaturada, Total: 2300},
	}
	for _, v := range seed {
		_, err := repo.Create(context.Background(), v)
		require.NoError(t, err)
	}
}

func TestListVisibleVendedorSeesOnlyOwn(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	vendedor := &authz.User{
		ID:          "10",
		Email:       "ana@mp2.com.br",
		Role:        authz.RoleVendedor,
		Store:       "centro",
		Permissions: authz.DefaultCustomPermissions(),
	}
	vendas, err := svc.ListVisible(context.Background(), vendedor, 0, 0)
	require.NoError(t, err)
	require.Len(t, vendas, 1)
	assert.Equal(t, int64(10), vendas[0].VendedorID)
}

func TestListVisibleGerenteSeesWholeStore(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	gerente := &authz.User{
		ID:          "20",
		Email:       "gerente@mp2.com.br",
		Role:        authz.RoleGerente,
		Store:       "centro",
		Permissions: authz.DefaultCustomPermissions(),
	}
	vendas, err := svc.ListVisible(context.Background(), gerente, 0, 0)
	require.NoError(t, err)
	require.Len(t, vendas, 2)
	for _, v := range vendas {
		assert.Equal(t, "centro", v.LojaID)
	}
}

func TestListVisibleAdministratorSeesEverything(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	admin := &authz.User{ID: "1", Role: authz.RoleAdministrator}
	vendas, err := svc.ListVisible(context.Background(), admin, 0, 0)
	require.NoError(t, err)
	assert.Len(t, vendas, 3)
}

func TestListVisibleNilUserSeesNothing(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	vendas, err := svc.ListVisible(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, vendas)
}

func TestListVisibleGerenteWithoutStoreSeesNothing(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	gerente := &authz.User{
		ID:          "20",
		Role:        authz.RoleGerente,
		Permissions: authz.DefaultCustomPermissions(),
	}
	vendas, err := svc.ListVisible(context.Background(), gerente, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, vendas)
}

func TestCreateStampsOwnerAndStore(t *testing.T) {
	svc, _ := newTestService()

	vendedor := &authz.User{
		ID:          "10",
		Email:       "ana@mp2.com.br",
		Role:        authz.RoleVendedor,
		Store:       "centro",
		Permissions: authz.DefaultCustomPermissions(),
	}
	venda, err := svc.Create(context.Background(), vendedor, CreateInput{ClienteID: 5, Total: 990})
	require.NoError(t, err)
	assert.Equal(t, int64(10), venda.VendedorID)
	assert.Equal(t, "ana@mp2.com.br", venda.CreatedBy)
	assert.Equal(t, "centro", venda.LojaID)
	assert.Equal(t, VendaStatusAberta, venda.Status)
}

func TestCreateWithoutStoreFails(t *testing.T) {
	svc, _ := newTestService()
	user := &authz.User{ID: "10", Role: authz.RoleVendedor, Permissions: authz.DefaultCustomPermissions()}
	_, err := svc.Create(context.Background(), user, CreateInput{ClienteID: 5, Total: 990})
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestCancelOutsideScopeFails(t *testing.T) {
	svc, repo := newTestService()
	seedVendas(t, repo)

	vendedor := &authz.User{
		ID:          "10",
		Email:       "ana@mp2.com.br",
		Role:        authz.RoleVendedor,
		Store:       "centro",
		Permissions: authz.DefaultCustomPermissions(),
	}
	// Venda 3 belongs to vendedor 12 at loja norte.
	err := svc.Cancel(context.Background(), vendedor, 3)
	assert.ErrorIs(t, err, ErrNotVisible)

	err = svc.Cancel(context.Background(), vendedor, 1)
	require.NoError(t, err)
	v, _ := repo.Get(context.Background(), 1)
	assert.Equal(t, VendaStatusCancelada, v.Status)
}

func TestCancelDeliveredFails(t *testing.T) {
	svc, repo := newTestService()
	_, err := repo.Create(context.Background(), Venda{
		VendedorID: 10, CreatedBy: "ana@mp2.com.br", LojaID: "centro", Status: VendaStatusEntregue,
	})
	require.NoError(t, err)

	admin := &authz.User{ID: "1", Role: authz.RoleAdministrator}
	assert.ErrorIs(t, svc.Cancel(context.Background(), admin, 1), ErrInvalidStatus)
}
