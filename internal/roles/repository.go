package roles

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// RepositoryPort defines data access for the persisted permission matrix.
type RepositoryPort interface {
	ListOverrides(ctx context.Context) ([]Override, error)
	Upsert(ctx context.Context, override Override) error
	Delete(ctx context.Context, role string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListOverrides returns every override row.
func (r *Repository) ListOverrides(ctx context.Context) ([]Override, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, capabilities, scope, updated_at FROM role_overrides ORDER BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.Role, &o.Capabilities, &o.Scope, &o.UpdatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// Upsert stores one override row.
func (r *Repository) Upsert(ctx context.Context, override Override) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_overrides (role, capabilities, scope, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (role) DO UPDATE SET capabilities = EXCLUDED.capabilities, scope = EXCLUDED.scope, updated_at = NOW()`,
		override.Role, override.Capabilities, override.Scope,
	)
	return err
}

// Delete removes an override, restoring the static defaults for the role.
func (r *Repository) Delete(ctx context.Context, role string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role_overrides WHERE role = $1`, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
