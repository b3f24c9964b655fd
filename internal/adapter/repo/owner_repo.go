package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"paycoffee/server/internal/domain"
)

// OwnerRepositoryPG implements domain.OwnerRepository backed by PostgreSQL.
type OwnerRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepositoryPG.
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepositoryPG {
	return &OwnerRepositoryPG{pool: pool}
}

// Create inserts a new owner account. A duplicate email reports ErrEmailTaken.
func (r *OwnerRepositoryPG) Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO owners (id, email, password_hash, display_name, payman_paytag)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, password_hash, display_name, payman_paytag, created_at;
`, owner.ID, owner.Email, owner.PasswordHash, owner.DisplayName, owner.PaymanPaytag)

	created, err := scanOwner(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches an owner by UUID.
func (r *OwnerRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, display_name, payman_paytag, created_at FROM owners WHERE id = $1`, id)
	return scanOwner(row)
}

// GetByEmail fetches an owner by unique email.
func (r *OwnerRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, display_name, payman_paytag, created_at FROM owners WHERE email = $1`, email)
	return scanOwner(row)
}

func scanOwner(row pgx.Row) (*domain.Owner, error) {
	var o domain.Owner
	if err := row.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.DisplayName, &o.PaymanPaytag, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
