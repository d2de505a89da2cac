package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

var (
	// ErrInvalidStatus indicates a forbidden lifecycle transition.
	ErrInvalidStatus = errors.New("sales: invalid status transition")
	// ErrStoreRequired indicates the acting user has no store to stamp.
	ErrStoreRequired = errors.New("sales: acting user has no store assignment")
	// ErrNotVisible indicates the row exists but is outside the user's scope.
	ErrNotVisible = errors.New("sales: not visible")
)

// Owner and store precedence for sales rows.
var scopeOptions = authz.FilterOptions{
	OwnerFields: []string{"vendedor_id", "created_by"},
	StoreFields: []string{"loja_id"},
}

// Service handles sales business logic. Row visibility is enforced here,
// after fetch, through the authorization policy.
type Service struct {
	repo   Repository
	policy *authz.Policy
}

// NewService builds a Service instance.
func NewService(repo Repository, policy *authz.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

// ListVisible returns the sales orders the user is entitled to see.
func (s *Service) ListVisible(ctx context.Context, user *authz.User, limit, offset int) ([]Venda, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	vendas, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return authz.FilterByScope(s.policy, vendas, user, scopeOptions), nil
}

// GetVisible returns one sales order, applying the same row visibility
// rule as listings so a direct fetch cannot widen access.
func (s *Service) GetVisible(ctx context.Context, user *authz.User, id int64) (*Venda, error) {
	venda, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	visible := authz.FilterByScope(s.policy, []Venda{*venda}, user, scopeOptions)
	if len(visible) == 0 {
		return nil, ErrNotVisible
	}
	return venda, nil
}

// CreateInput carries the caller-provided fields of a new sales order.
type CreateInput struct {
	ClienteID int64
	Total     float64
	Notas     *string
}

// Create stamps the acting user as owner and their store on the new
// order. Administrators without a store assignment cannot create orders;
// every order belongs to a store.
func (s *Service) Create(ctx context.Context, user *authz.User, input CreateInput) (*Venda, error) {
	if user == nil {
		return nil, errors.New("sales: user required")
	}
	if user.Store == "" {
		return nil, ErrStoreRequired
	}
	vendedorID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("sales: bad user id: %w", err)
	}
	venda := Venda{
		ClienteID:  input.ClienteID,
		VendedorID: vendedorID,
		CreatedBy:  user.Email,
		LojaID:     user.Store,
		Status:     VendaStatusAberta,
		Total:      input.Total,
		Notas:      input.Notas,
	}
	id, err := s.repo.Create(ctx, venda)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Cancel moves an order to CANCELADA. Only open or invoiced orders can
// be cancelled, and only if the caller can see the row.
func (s *Service) Cancel(ctx context.Context, user *authz.User, id int64) error {
	venda, err := s.GetVisible(ctx, user, id)
	if err != nil {
		return err
	}
	if venda.Status != VendaStatusAberta && venda.Status != VendaStatusFaturada {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, VendaStatusCancelada)
}

// SearchClientes returns customers matching the accent-folded query,
// narrowed to the user's row visibility.
func (s *Service) SearchClientes(ctx context.Context, user *authz.User, query string, limit int) ([]Cliente, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	clientes, err := s.repo.SearchClientes(ctx, Fold(query), limit)
	if err != nil {
		return nil, err
	}
	return authz.FilterByScope(s.policy, clientes, user, authz.FilterOptions{
		OwnerFields: []string{"created_by"},
		StoreFields: []string{"loja_id"},
	}), nil
}

// CreateCliente registers a customer stamped with the acting user.
func (s *Service) CreateCliente(ctx context.Context, user *authz.User, cliente Cliente) (int64, error) {
	if user == nil {
		return 0, errors.New("sales: user required")
	}
	if user.Store == "" {
		return 0, ErrStoreRequired
	}
	cliente.LojaID = user.Store
	cliente.CreatedBy = user.Email
	cliente.NomeNormalizado = Fold(cliente.Nome)
	return s.repo.CreateCliente(ctx, cliente)
}
