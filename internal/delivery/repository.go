package delivery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Repository defines data access for delivery orders.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Entrega, error)
	Get(ctx context.Context, id int64) (*Entrega, error)
	Create(ctx context.Context, e Entrega) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status EntregaStatus) error
	Assign(ctx context.Context, id int64, entregadorEmail string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const entregaColumns = `id, venda_id, entregador_email, responsavel_id, loja_id, endereco, status, agendada_para, entregue_em, created_at, updated_at`

func (r *repository) List(ctx context.Context, limit, offset int) ([]Entrega, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entregaColumns+` FROM entregas ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entregas []Entrega
	for rows.Next() {
		e, err := scanEntrega(rows)
		if err != nil {
			return nil, err
		}
		entregas = append(entregas, e)
	}
	return entregas, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Entrega, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entregaColumns+` FROM entregas WHERE id = $1`, id)
	e, err := scanEntrega(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Create(ctx context.Context, e Entrega) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO entregas (venda_id, entregador_email, responsavel_id, loja_id, endereco, status, agendada_para)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.VendaID, e.EntregadorEmail, e.ResponsavelID, e.LojaID, e.Endereco, e.Status, e.AgendadaPara,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status EntregaStatus) error {
	query := `UPDATE entregas SET status = $2, updated_at = NOW() WHERE id = $1`
	if status == EntregaStatusEntregue {
		query = `UPDATE entregas SET status = $2, entregue_em = NOW(), updated_at = NOW() WHERE id = $1`
	}
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, id int64, entregadorEmail string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE entregas SET entregador_email = $2, updated_at = NOW() WHERE id = $1`,
		id, entregadorEmail,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanEntrega(row pgx.Row) (Entrega, error) {
	var e Entrega
	err := row.Scan(&e.ID, &e.VendaID, &e.EntregadorEmail, &e.ResponsavelID, &e.LojaID, &e.Endereco, &e.Status, &e.AgendadaPara, &e.EntregueEm, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
