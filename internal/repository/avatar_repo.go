package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialink/internal/domain"
)

// AvatarRepository es el bucket de avatares, modelado como tabla de objetos.
type AvatarRepository interface {
	Put(ctx context.Context, obj domain.AvatarObject) error
	Get(ctx context.Context, path string) (domain.AvatarObject, error)
	List(ctx context.Context, prefix string) ([]domain.AvatarObject, error)
}

type PgAvatarRepository struct {
	pool *pgxpool.Pool
}

func NewPgAvatarRepository(pool *pgxpool.Pool) *PgAvatarRepository {
	return &PgAvatarRepository{pool: pool}
}

func (r *PgAvatarRepository) Put(ctx context.Context, obj domain.AvatarObject) error {
	const query = `
		INSERT INTO avatar_objects (path, content_type, size, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		obj.Path,
		obj.ContentType,
		obj.Size,
		obj.Data,
		obj.CreatedAt,
	)
	return err
}

func (r *PgAvatarRepository) Get(ctx context.Context, path string) (domain.AvatarObject, error) {
	const query = `
		SELECT path, content_type, size, data, created_at
		FROM avatar_objects
		WHERE path = $1
	`
	var obj domain.AvatarObject
	err := r.pool.QueryRow(ctx, query, path).Scan(
		&obj.Path,
		&obj.ContentType,
		&obj.Size,
		&obj.Data,
		&obj.CreatedAt,
	)
	return obj, err
}

// List devuelve los metadatos de los objetos bajo prefix, más reciente primero.
func (r *PgAvatarRepository) List(ctx context.Context, prefix string) ([]domain.AvatarObject, error) {
	const query = `
		SELECT path, content_type, size, created_at
		FROM avatar_objects
		WHERE path LIKE $1 || '%'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objects := make([]domain.AvatarObject, 0)
	for rows.Next() {
		var obj domain.AvatarObject
		if err := rows.Scan(&obj.Path, &obj.ContentType, &obj.Size, &obj.CreatedAt); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}
