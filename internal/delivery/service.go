package delivery

import (
	"context"
	"errors"
	"strconv"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

var (
	// ErrInvalidStatus indicates a forbidden lifecycle transition.
	ErrInvalidStatus = errors.New("delivery: invalid status transition")
	// ErrStoreRequired indicates the acting user has no store to stamp.
	ErrStoreRequired = errors.New("delivery: acting user has no store assignment")
	// ErrNotVisible indicates the row exists but is outside the user's scope.
	ErrNotVisible = errors.New("delivery: not visible")
)

// Owner and store precedence for delivery rows. The driver's email is
// checked before the dispatcher's account ID.
var scopeOptions = authz.FilterOptions{
	OwnerFields: []string{"entregador_email", "responsavel_id"},
	StoreFields: []string{"loja_id"},
}

// Service handles delivery business logic.
type Service struct {
	repo   Repository
	policy *authz.Policy
}

// NewService builds a Service instance.
func NewService(repo Repository, policy *authz.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

// ListVisible returns the delivery orders the user is entitled to see.
// A driver sees only routes assigned to their email or dispatched by
// their account.
func (s *Service) ListVisible(ctx context.Context, user *authz.User, limit, offset int) ([]Entrega, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entregas, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return authz.FilterByScope(s.policy, entregas, user, scopeOptions), nil
}

// GetVisible returns one delivery order under the same row visibility
// rule as listings.
func (s *Service) GetVisible(ctx context.Context, user *authz.User, id int64) (*Entrega, error) {
	entrega, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	visible := authz.FilterByScope(s.policy, []Entrega{*entrega}, user, scopeOptions)
	if len(visible) == 0 {
		return nil, ErrNotVisible
	}
	return entrega, nil
}

// Create registers a delivery order dispatched by the acting user, at
// the acting user's store.
func (s *Service) Create(ctx context.Context, user *authz.User, e Entrega) (int64, error) {
	if user == nil {
		return 0, errors.New("delivery: user required")
	}
	if user.Store == "" {
		return 0, ErrStoreRequired
	}
	responsavelID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, errors.New("delivery: bad user id")
	}
	e.ResponsavelID = responsavelID
	e.LojaID = user.Store
	e.Status = EntregaStatusPendente
	return s.repo.Create(ctx, e)
}

// Assign hands the delivery to a driver by login email. Only pending
// deliveries can be assigned.
func (s *Service) Assign(ctx context.Context, user *authz.User, id int64, entregadorEmail string) error {
	entrega, err := s.GetVisible(ctx, user, id)
	if err != nil {
		return err
	}
	if entrega.Status != EntregaStatusPendente {
		return ErrInvalidStatus
	}
	return s.repo.Assign(ctx, id, entregadorEmail)
}

// Advance moves a delivery along its lifecycle. Transitions only move
// forward: PENDENTE -> EM_ROTA -> ENTREGUE, with DEVOLVIDA allowed from
// EM_ROTA.
func (s *Service) Advance(ctx context.Context, user *authz.User, id int64, to EntregaStatus) error {
	entrega, err := s.GetVisible(ctx, user, id)
	if err != nil {
		return err
	}
	if !validTransition(entrega.Status, to) {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, to)
}

func validTransition(from, to EntregaStatus) bool {
	switch from {
	case EntregaStatusPendente:
		return to == EntregaStatusEmRota
	case EntregaStatusEmRota:
		return to == EntregaStatusEntregue || to == EntregaStatusDevolvida
	default:
		return false
	}
}
