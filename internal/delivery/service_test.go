package delivery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

type mockRepository struct {
	entregas map[int64]*Entrega
	nextID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{entregas: make(map[int64]*Entrega), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Entrega, error) {
	out := make([]Entrega, 0, len(m.entregas))
	for id := int64(1); id < m.nextID; id++ {
		if e, ok := m.entregas[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Entrega, error) {
	e, ok := m.entregas[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepository) Create(ctx context.Context, e Entrega) (int64, error) {
	e.ID = m.nextID
	m.entregas[e.ID] = &e
	m.nextID++
	return e.ID, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status EntregaStatus) error {
	e, ok := m.entregas[id]
	if !ok {
		return assert.AnError
	}
	e.Status = status
	return nil
}

func (m *mockRepository) Assign(ctx context.Context, id int64, entregadorEmail string) error {
	e, ok := m.entregas[id]
	if !ok {
		return assert.AnError
	}
	e.EntregadorEmail = entregadorEmail
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, authz.NewPolicy(authz.StaticSource{}, nil)), repo
}

func seedEntregas(t *testing.T, repo *mockRepository) {
	t.Helper()
	seed := []Entrega{
		{VendaID: 1, EntregadorEmail: "joao@mp2.com.br", ResponsavelID: 40, LojaID: "centro", Status: EntregaStatusEmRota},
		{VendaID: 2, EntregadorEmail: "maria@mp2.com.br", ResponsavelID: 40, LojaID: "centro", Status: EntregaStatusPendente},
		{VendaID: 3, EntregadorEmail: "", ResponsavelID: 55, LojaID: "norte", Status: EntregaStatusPendente},
	}
	for _, e := range seed {
		_, err := repo.Create(context.Background(), e)
		require.NoError(t, err)
	}
}

func TestListVisibleDriverMatchedByEmail(t *testing.T) {
	svc, repo := newTestService()
	seedEntregas(t, repo)

	driver := &authz.User{
		ID:          "99",
		Email:       "joao@mp2.com.br",
		Role:        authz.RoleEntregador,
		Permissions: authz.DefaultCustomPermissions(),
	}
	entregas, err := svc.ListVisible(context.Background(), driver, 0, 0)
	require.NoError(t, err)
	require.Len(t, entregas, 1)
	assert.Equal(t, "joao@mp2.com.br", entregas[0].EntregadorEmail)
}

func TestListVisibleDispatcherMatchedByID(t *testing.T) {
	svc, repo := newTestService()
	seedEntregas(t, repo)

	// Entregador resolves to OWN scope; rows 1 and 2 carry their account
	// ID as responsavel_id even though the assigned drivers differ.
	dispatcher := &authz.User{
		ID:          "40",
		Email:       "despacho@mp2.com.br",
		Role:        authz.RoleEntregador,
		Permissions: authz.DefaultCustomPermissions(),
	}
	entregas, err := svc.ListVisible(context.Background(), dispatcher, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entregas, 2)
}

func TestListVisibleEstoquistaSeesStore(t *testing.T) {
	svc, repo := newTestService()
	seedEntregas(t, repo)

	estoquista := &authz.User{
		ID:          "30",
		Role:        authz.RoleEstoquista,
		Store:       "norte",
		Permissions: authz.DefaultCustomPermissions(),
	}
	entregas, err := svc.ListVisible(context.Background(), estoquista, 0, 0)
	require.NoError(t, err)
	require.Len(t, entregas, 1)
	assert.Equal(t, "norte", entregas[0].LojaID)
}

func TestCreateStampsDispatcherAndStore(t *testing.T) {
	svc, repo := newTestService()

	gerente := &authz.User{
		ID:          "40",
		Email:       "gerente@mp2.com.br",
		Role:        authz.RoleGerente,
		Store:       "centro",
		Permissions: authz.DefaultCustomPermissions(),
	}
	id, err := svc.Create(context.Background(), gerente, Entrega{VendaID: 9, Endereco: "Rua A, 10"})
	require.NoError(t, err)
	e, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(40), e.ResponsavelID)
	assert.Equal(t, "centro", e.LojaID)
	assert.Equal(t, EntregaStatusPendente, e.Status)
}

func TestAdvanceEnforcesLifecycle(t *testing.T) {
	svc, repo := newTestService()
	seedEntregas(t, repo)

	admin := &authz.User{ID: "1", Role: authz.RoleAdministrator}

	// Row 2 is PENDENTE: going straight to ENTREGUE is rejected.
	assert.ErrorIs(t, svc.Advance(context.Background(), admin, 2, EntregaStatusEntregue), ErrInvalidStatus)

	require.NoError(t, svc.Advance(context.Background(), admin, 2, EntregaStatusEmRota))
	require.NoError(t, svc.Advance(context.Background(), admin, 2, EntregaStatusEntregue))
	e, _ := repo.Get(context.Background(), 2)
	assert.Equal(t, EntregaStatusEntregue, e.Status)

	// Delivered rows are terminal.
	assert.ErrorIs(t, svc.Advance(context.Background(), admin, 2, EntregaStatusDevolvida), ErrInvalidStatus)
}

func TestAssignOutsideScopeFails(t *testing.T) {
	svc, repo := newTestService()
	seedEntregas(t, repo)

	driver := &authz.User{
		ID:          "99",
		Email:       "joao@mp2.com.br",
		Role:        authz.RoleEntregador,
		Permissions: authz.DefaultCustomPermissions(),
	}
	// Row 3 belongs to another store and dispatcher.
	assert.ErrorIs(t, svc.Assign(context.Background(), driver, 3, "joao@mp2.com.br"), ErrNotVisible)
}
