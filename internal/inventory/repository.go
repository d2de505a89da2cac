package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Repository defines data access for products and stock levels.
type Repository interface {
	ListProdutos(ctx context.Context, onlyActive bool) ([]Produto, error)
	GetProduto(ctx context.Context, id int64) (*Produto, error)
	CreateProduto(ctx context.Context, p Produto) (int64, error)
	UpdateProduto(ctx context.Context, p Produto) error
	ListStock(ctx context.Context) ([]StockLevel, error)
	AdjustStock(ctx context.Context, produtoID int64, lojaID string, delta int) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListProdutos(ctx context.Context, onlyActive bool) ([]Produto, error) {
	query := `SELECT id, sku, nome, categoria, preco, ativo, created_at, updated_at FROM produtos`
	if onlyActive {
		query += ` WHERE ativo`
	}
	query += ` ORDER BY nome`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var produtos []Produto
	for rows.Next() {
		var p Produto
		if err := rows.Scan(&p.ID, &p.SKU, &p.Nome, &p.Categoria, &p.Preco, &p.Ativo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		produtos = append(produtos, p)
	}
	return produtos, rows.Err()
}

func (r *repository) GetProduto(ctx context.Context, id int64) (*Produto, error) {
	var p Produto
	err := r.pool.QueryRow(ctx,
		`SELECT id, sku, nome, categoria, preco, ativo, created_at, updated_at FROM produtos WHERE id = $1`, id,
	).Scan(&p.ID, &p.SKU, &p.Nome, &p.Categoria, &p.Preco, &p.Ativo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreateProduto(ctx context.Context, p Produto) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO produtos (sku, nome, categoria, preco, ativo) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.SKU, p.Nome, p.Categoria, p.Preco, p.Ativo,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateProduto(ctx context.Context, p Produto) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE produtos SET nome = $2, categoria = $3, preco = $4, ativo = $5, updated_at = NOW() WHERE id = $1`,
		p.ID, p.Nome, p.Categoria, p.Preco, p.Ativo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListStock(ctx context.Context) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.produto_id, p.sku, p.nome, s.loja_id, s.quantidade, s.minimo, s.updated_at
		 FROM estoque s JOIN produtos p ON p.id = s.produto_id
		 ORDER BY p.nome, s.loja_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var s StockLevel
		if err := rows.Scan(&s.ProdutoID, &s.SKU, &s.Nome, &s.LojaID, &s.Quantidade, &s.Minimo, &s.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, s)
	}
	return levels, rows.Err()
}

func (r *repository) AdjustStock(ctx context.Context, produtoID int64, lojaID string, delta int) (int, error) {
	var quantidade int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO estoque (produto_id, loja_id, quantidade) VALUES ($1, $2, GREATEST($3, 0))
		 ON CONFLICT (produto_id, loja_id)
		 DO UPDATE SET quantidade = GREATEST(estoque.quantidade + $3, 0), updated_at = NOW()
		 RETURNING quantidade`,
		produtoID, lojaID, delta,
	).Scan(&quantidade)
	if err != nil {
		return 0, err
	}
	return quantidade, nil
}
