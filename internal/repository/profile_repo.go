package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialink/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile domain.UserProfile) error
	Update(ctx context.Context, profile domain.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (domain.UserProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Create(ctx context.Context, profile domain.UserProfile) error {
	const query = `
		INSERT INTO user_profiles (user_id, bio, date_of_birth)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.DateOfBirth,
	)
	return err
}

func (r *PgProfileRepository) Update(ctx context.Context, profile domain.UserProfile) error {
	const query = `
		UPDATE user_profiles
		SET bio = $2, date_of_birth = $3
		WHERE user_id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.DateOfBirth,
	)
	return err
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.UserProfile, error) {
	const query = `
		SELECT user_id, COALESCE(bio, ''), date_of_birth
		FROM user_profiles
		WHERE user_id = $1
	`
	var profile domain.UserProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.DateOfBirth,
	)
	return profile, err
}
