package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/platform/db"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Repository defines data access for sales orders and customers.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Venda, error)
	Get(ctx context.Context, id int64) (*Venda, error)
	Create(ctx context.Context, venda Venda) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status VendaStatus) error
	SearchClientes(ctx context.Context, foldedQuery string, limit int) ([]Cliente, error)
	CreateCliente(ctx context.Context, cliente Cliente) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const vendaColumns = `id, numero, cliente_id, vendedor_id, created_by, loja_id, status, total, notas, created_at, updated_at`

func (r *repository) List(ctx context.Context, limit, offset int) ([]Venda, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vendaColumns+` FROM vendas ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendas []Venda
	for rows.Next() {
		v, err := scanVenda(rows)
		if err != nil {
			return nil, err
		}
		vendas = append(vendas, v)
	}
	return vendas, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Venda, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendaColumns+` FROM vendas WHERE id = $1`, id)
	v, err := scanVenda(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) Create(ctx context.Context, venda Venda) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		numero, err := nextNumero(ctx, tx, venda.LojaID)
		if err != nil {
			return fmt.Errorf("generate numero: %w", err)
		}
		return tx.QueryRow(ctx,
			`INSERT INTO vendas (numero, cliente_id, vendedor_id, created_by, loja_id, status, total, notas)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			numero, venda.ClienteID, venda.VendedorID, venda.CreatedBy, venda.LojaID, venda.Status, venda.Total, venda.Notas,
		).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status VendaStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vendas SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SearchClientes(ctx context.Context, foldedQuery string, limit int) ([]Cliente, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, nome, nome_normalizado, email, telefone, loja_id, created_by, created_at
		 FROM clientes WHERE nome_normalizado LIKE '%' || $1 || '%' ORDER BY nome LIMIT $2`,
		foldedQuery, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientes []Cliente
	for rows.Next() {
		var c Cliente
		if err := rows.Scan(&c.ID, &c.Nome, &c.NomeNormalizado, &c.Email, &c.Telefone, &c.LojaID, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

func (r *repository) CreateCliente(ctx context.Context, cliente Cliente) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO clientes (nome, nome_normalizado, email, telefone, loja_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		cliente.Nome, cliente.NomeNormalizado, cliente.Email, cliente.Telefone, cliente.LojaID, cliente.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// nextNumero issues a per-store sequential document number, e.g.
// "CENTRO-2026-000042".
func nextNumero(ctx context.Context, tx pgx.Tx, lojaID string) (string, error) {
	var seq int64
	err := tx.QueryRow(ctx,
		`INSERT INTO venda_sequences (loja_id, ano, seq) VALUES ($1, $2, 1)
		 ON CONFLICT (loja_id, ano) DO UPDATE SET seq = venda_sequences.seq + 1
		 RETURNING seq`,
		lojaID, time.Now().Year(),
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%06d", lojaID, time.Now().Year(), seq), nil
}

func scanVenda(row pgx.Row) (Venda, error) {
	var v Venda
	err := row.Scan(&v.ID, &v.Numero, &v.ClienteID, &v.VendedorID, &v.CreatedBy, &v.LojaID, &v.Status, &v.Total, &v.Notas, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
