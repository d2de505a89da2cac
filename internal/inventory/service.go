package inventory

import (
	"context"
	"errors"
	"strconv"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// ErrStoreRequired indicates the acting user has no store to adjust.
var ErrStoreRequired = errors.New("inventory: acting user has no store assignment")

// Stock rows are store-scoped only; there is no per-user ownership.
var stockScope = authz.FilterOptions{StoreFields: []string{"loja_id"}}

// Auditor records catalog and stock edits.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles product catalog and stock operations.
type Service struct {
	repo   Repository
	policy *authz.Policy
	audit  Auditor
}

// NewService builds a Service instance. audit may be nil.
func NewService(repo Repository, policy *authz.Policy, audit Auditor) *Service {
	return &Service{repo: repo, policy: policy, audit: audit}
}

// ListProdutos returns the product catalog. The catalog is shared
// across stores and is not row-filtered.
func (s *Service) ListProdutos(ctx context.Context, onlyActive bool) ([]Produto, error) {
	return s.repo.ListProdutos(ctx, onlyActive)
}

// GetProduto returns one catalog item.
func (s *Service) GetProduto(ctx context.Context, id int64) (*Produto, error) {
	return s.repo.GetProduto(ctx, id)
}

// CreateProduto registers a catalog item.
func (s *Service) CreateProduto(ctx context.Context, actorID int64, p Produto) (int64, error) {
	id, err := s.repo.CreateProduto(ctx, p)
	if err != nil {
		return 0, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "inventory.produto_created",
			Entity:   "produto",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"sku": p.SKU},
		})
	}
	return id, nil
}

// UpdateProduto updates a catalog item.
func (s *Service) UpdateProduto(ctx context.Context, actorID int64, p Produto) error {
	if err := s.repo.UpdateProduto(ctx, p); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "inventory.produto_updated",
			Entity:   "produto",
			EntityID: strconv.FormatInt(p.ID, 10),
		})
	}
	return nil
}

// ListStock returns stock levels narrowed to the user's visibility. A
// store-scoped user only sees their own store's shelves.
func (s *Service) ListStock(ctx context.Context, user *authz.User) ([]StockLevel, error) {
	levels, err := s.repo.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	return authz.FilterByScope(s.policy, levels, user, stockScope), nil
}

// AdjustStock applies a quantity delta at the user's own store.
// Quantities never go below zero.
func (s *Service) AdjustStock(ctx context.Context, user *authz.User, produtoID int64, delta int) (int, error) {
	if user == nil || user.Store == "" {
		return 0, ErrStoreRequired
	}
	quantidade, err := s.repo.AdjustStock(ctx, produtoID, user.Store, delta)
	if err != nil {
		return 0, err
	}
	if s.audit != nil {
		actorID, _ := strconv.ParseInt(user.ID, 10, 64)
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "inventory.stock_adjusted",
			Entity:   "estoque",
			EntityID: strconv.FormatInt(produtoID, 10),
			Meta:     map[string]any{"loja_id": user.Store, "delta": delta, "quantidade": quantidade},
		})
	}
	return quantidade, nil
}

// LowStock returns visible stock levels at or below their configured
// minimum. Used by the replenishment report job.
func (s *Service) LowStock(ctx context.Context, user *authz.User) ([]StockLevel, error) {
	levels, err := s.ListStock(ctx, user)
	if err != nil {
		return nil, err
	}
	low := make([]StockLevel, 0)
	for _, l := range levels {
		if l.Quantidade <= l.Minimo {
			low = append(low, l)
		}
	}
	return low, nil
}
