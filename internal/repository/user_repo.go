package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"socialink/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListWithProfiles(ctx context.Context) ([]domain.User, error)
	GetManyByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	UpdateImgURL(ctx context.Context, id, imgURL string) (domain.User, error)
	GetSavedProfiles(ctx context.Context, id string) ([]string, error)
	AppendSavedProfile(ctx context.Context, id, profileID string) ([]string, error)
	RemoveSavedProfile(ctx context.Context, id, profileID string) ([]string, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	u.user_id, u.email,
	COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
	COALESCE(u.major, ''), COALESCE(u.bio, ''),
	u.grad_year,
	COALESCE(u.img_url, ''), COALESCE(u.instagram, ''), COALESCE(u.snapchat, ''),
	COALESCE(u.saved_profiles, '{}'), u.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Major,
		&u.Bio,
		&u.GradYear,
		&u.ImgURL,
		&u.Instagram,
		&u.Snapchat,
		&u.SavedProfiles,
		&u.CreatedAt,
	)
	return u, err
}

func scanUserWithProfile(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		pID  *string
		pBio *string
		pDOB *time.Time
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Major,
		&u.Bio,
		&u.GradYear,
		&u.ImgURL,
		&u.Instagram,
		&u.Snapchat,
		&u.SavedProfiles,
		&u.CreatedAt,
		&pID,
		&pBio,
		&pDOB,
	)
	if err != nil {
		return domain.User{}, err
	}
	if pID != nil {
		profile := domain.UserProfile{UserID: *pID, DateOfBirth: pDOB}
		if pBio != nil {
			profile.Bio = *pBio
		}
		u.Profile = &profile
	}
	return u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (user_id, email, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `
		SELECT ` + userColumns + `, p.user_id, p.bio, p.date_of_birth
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.user_id
		WHERE u.user_id = $1
	`
	return scanUserWithProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) ListWithProfiles(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `, p.user_id, p.bio, p.date_of_birth
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.user_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetManyByIDs devuelve los usuarios cuyo user_id esté en ids.
// El orden del resultado lo decide el store, no el slice de entrada.
func (r *PgUserRepository) GetManyByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.user_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	query := `
		UPDATE users AS u SET
			first_name = $2,
			last_name = $3,
			email = $4,
			major = $5,
			img_url = $6,
			bio = $7,
			grad_year = $8,
			instagram = $9,
			snapchat = $10
		WHERE u.user_id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Major,
		nullIfEmpty(user.ImgURL),
		user.Bio,
		user.GradYear,
		user.Instagram,
		user.Snapchat,
	))
}

func (r *PgUserRepository) UpdateImgURL(ctx context.Context, id, imgURL string) (domain.User, error) {
	query := `
		UPDATE users AS u SET img_url = $2
		WHERE u.user_id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, query, id, imgURL))
}

func (r *PgUserRepository) GetSavedProfiles(ctx context.Context, id string) ([]string, error) {
	const query = `
		SELECT COALESCE(saved_profiles, '{}')
		FROM users
		WHERE user_id = $1
	`
	var saved []string
	err := r.pool.QueryRow(ctx, query, id).Scan(&saved)
	return saved, err
}

// AppendSavedProfile agrega profileID al final del array en un solo UPDATE.
// array_append no deduplica: entradas repetidas quedan repetidas.
func (r *PgUserRepository) AppendSavedProfile(ctx context.Context, id, profileID string) ([]string, error) {
	const query = `
		UPDATE users
		SET saved_profiles = array_append(COALESCE(saved_profiles, '{}'), $2)
		WHERE user_id = $1
		RETURNING saved_profiles
	`
	var saved []string
	err := r.pool.QueryRow(ctx, query, id, profileID).Scan(&saved)
	return saved, err
}

// RemoveSavedProfile elimina todas las ocurrencias de profileID.
func (r *PgUserRepository) RemoveSavedProfile(ctx context.Context, id, profileID string) ([]string, error) {
	const query = `
		UPDATE users
		SET saved_profiles = array_remove(COALESCE(saved_profiles, '{}'), $2)
		WHERE user_id = $1
		RETURNING saved_profiles
	`
	var saved []string
	err := r.pool.QueryRow(ctx, query, id, profileID).Scan(&saved)
	return saved, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
