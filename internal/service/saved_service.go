package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialink/internal/domain"
	"socialink/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// SavedProfilesService edita la lista de perfiles guardados de un usuario.
//
// Las mutaciones se hacen con primitivas atómicas del store
// (array_append/array_remove en un solo UPDATE), así dos llamadas
// concurrentes sobre el mismo usuario no se pisan entre sí. Los duplicados
// están permitidos: guardar dos veces el mismo perfil deja dos entradas.
type SavedProfilesService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewSavedProfilesService(logger *zap.Logger, users repository.UserRepository) *SavedProfilesService {
	return &SavedProfilesService{logger: logger, users: users}
}

func (s *SavedProfilesService) AddSaved(ctx context.Context, userID, profileID string) ([]string, error) {
	saved, err := s.users.AppendSavedProfile(ctx, userID, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return saved, nil
}

// RemoveSaved quita TODAS las ocurrencias de profileID. Quitar un id que
// no está en la lista es un no-op que igual devuelve la lista.
func (s *SavedProfilesService) RemoveSaved(ctx context.Context, userID, profileID string) ([]string, error) {
	saved, err := s.users.RemoveSavedProfile(ctx, userID, profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *SavedProfilesService) GetSaved(ctx context.Context, userID string) ([]string, error) {
	saved, err := s.users.GetSavedProfiles(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if saved == nil {
		saved = []string{}
	}
	return saved, nil
}

// GetManyByIDs trae los usuarios referenciados por ids; el orden lo decide
// el store.
func (s *SavedProfilesService) GetManyByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return s.users.GetManyByIDs(ctx, ids)
}
