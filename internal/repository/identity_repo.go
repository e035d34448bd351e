package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialink/internal/domain"
)

// IdentityRepository persiste las identidades del proveedor de auth.
type IdentityRepository interface {
	Create(ctx context.Context, identity domain.Identity) error
	GetByID(ctx context.Context, id string) (domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)
}

type PgIdentityRepository struct {
	pool *pgxpool.Pool
}

func NewPgIdentityRepository(pool *pgxpool.Pool) *PgIdentityRepository {
	return &PgIdentityRepository{pool: pool}
}

func (r *PgIdentityRepository) Create(ctx context.Context, identity domain.Identity) error {
	const query = `
		INSERT INTO auth_identities (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.CreatedAt,
	)
	return err
}

func (r *PgIdentityRepository) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	const query = `
		SELECT id, email, password_hash, created_at
		FROM auth_identities
		WHERE id = $1
	`
	var identity domain.Identity
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	return identity, err
}

func (r *PgIdentityRepository) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	const query = `
		SELECT id, email, password_hash, created_at
		FROM auth_identities
		WHERE email = $1
	`
	var identity domain.Identity
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	return identity, err
}
