package users

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

type mockRepository struct {
	users  map[int64]*User
	access map[int64]json.RawMessage
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User), access: make(map[int64]json.RawMessage)}
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, u User, passwordHash string) (int64, error) {
	m.users[u.ID] = &u
	return u.ID, nil
}

func (m *mockRepository) UpdateAccess(ctx context.Context, id int64, role string, store *string, permissions []byte) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Role = role
	u.Store = store
	u.RawPermissions = permissions
	m.access[id] = permissions
	return nil
}

func (m *mockRepository) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

type recordedAudit struct {
	logs []shared.AuditLog
}

func (a *recordedAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestUpdateAccessNormalizesPermissionBlob(t *testing.T) {
	repo := newMockRepository()
	store := "centro"
	repo.users[7] = &User{ID: 7, Email: "ana@mp2.com.br", Role: authz.RoleVendedor, Store: &store, IsActive: true}
	audit := &recordedAudit{}
	svc := NewService(repo, audit)

	err := svc.UpdateAccess(context.Background(), 1, 7, AccessUpdate{
		Role:    authz.RoleVendedor,
		Store:   &store,
		Inherit: true,
		Allowed: []string{"view_financeiro"},
	})
	require.NoError(t, err)

	var blob struct {
		Inherit bool     `json:"inherit"`
		Allowed []string `json:"allowed"`
		Denied  []string `json:"denied"`
	}
	require.NoError(t, json.Unmarshal(repo.access[7], &blob))
	assert.True(t, blob.Inherit)
	assert.Equal(t, []string{"view_financeiro"}, blob.Allowed)
	// Nil slices are written as empty arrays so readers never see null.
	assert.NotNil(t, blob.Denied)
	assert.Empty(t, blob.Denied)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, "users.access_updated", audit.logs[0].Action)
	assert.Equal(t, "7", audit.logs[0].EntityID)
}

func TestLoadAuthzInactiveAccountYieldsNil(t *testing.T) {
	repo := newMockRepository()
	repo.users[7] = &User{ID: 7, Email: "ana@mp2.com.br", Role: authz.RoleVendedor, IsActive: false}
	svc := NewService(repo, nil)

	user, err := svc.LoadAuthz(context.Background(), "7")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLoadAuthzUnknownAndMalformedIDs(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	user, err := svc.LoadAuthz(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.LoadAuthz(context.Background(), "not-a-number")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLoadAuthzCarriesOverrides(t *testing.T) {
	repo := newMockRepository()
	store := "centro"
	repo.users[7] = &User{
		ID: 7, Email: "ana@mp2.com.br", Role: authz.RoleVendedor, Store: &store, IsActive: true,
		RawPermissions: json.RawMessage(`{"inherit":true,"allowed":["view_financeiro"],"denied":["create_vendas"]}`),
	}
	svc := NewService(repo, nil)

	user, err := svc.LoadAuthz(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "centro", user.Store)

	policy := authz.NewPolicy(authz.StaticSource{}, nil)
	assert.True(t, policy.Can(user, authz.CapViewFinanceiro))
	assert.False(t, policy.Can(user, authz.CapCreateVendas))
	assert.True(t, policy.Can(user, authz.CapViewVendas))
}
