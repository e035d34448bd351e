package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialink/internal/domain"
	"socialink/internal/repository"
)

// AvatarService sube avatares al bucket y actualiza img_url del usuario.
type AvatarService struct {
	logger        *zap.Logger
	avatars       repository.AvatarRepository
	users         repository.UserRepository
	publicBaseURL string
}

func NewAvatarService(logger *zap.Logger, avatars repository.AvatarRepository, users repository.UserRepository, publicBaseURL string) *AvatarService {
	return &AvatarService{
		logger:        logger,
		avatars:       avatars,
		users:         users,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload guarda el archivo en {userID}/avatars/{uuid}{ext}, construye la
// URL pública y la escribe en users.img_url. Devuelve el usuario ya
// actualizado y la URL.
func (s *AvatarService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (domain.User, string, error) {
	ext := path.Ext(filename)
	objectPath := fmt.Sprintf("%s/avatars/%s%s", userID, uuid.NewString(), ext)

	obj := domain.AvatarObject{
		Path:        objectPath,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.avatars.Put(ctx, obj); err != nil {
		return domain.User{}, "", err
	}

	imgURL := s.PublicURL(objectPath)
	user, err := s.users.UpdateImgURL(ctx, userID, imgURL)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, imgURL, nil
}

// List devuelve los avatares guardados del usuario, más reciente primero.
func (s *AvatarService) List(ctx context.Context, userID string) ([]domain.AvatarObject, error) {
	return s.avatars.List(ctx, userID+"/avatars/")
}

// Open trae un objeto completo (con bytes) para servirlo.
func (s *AvatarService) Open(ctx context.Context, objectPath string) (domain.AvatarObject, error) {
	return s.avatars.Get(ctx, objectPath)
}

func (s *AvatarService) PublicURL(objectPath string) string {
	return s.publicBaseURL + "/files/" + objectPath
}
