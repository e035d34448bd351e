package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"socialink/internal/domain"
	"socialink/internal/repository"
)

// AuthProvider es el colaborador de identidad: verifica credenciales y
// emite sesiones. El Session Manager solo habla con esta interfaz.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (domain.Identity, domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (domain.Identity, domain.Session, error)
	GetUser(ctx context.Context, accessToken string) (domain.Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (domain.Identity, domain.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
)

// LocalAuthProvider implementa AuthProvider con credenciales propias:
// bcrypt sobre auth_identities y pares JWT firmados por JWTService.
type LocalAuthProvider struct {
	identities repository.IdentityRepository
	jwt        *JWTService
}

func NewLocalAuthProvider(identities repository.IdentityRepository, jwt *JWTService) *LocalAuthProvider {
	return &LocalAuthProvider{identities: identities, jwt: jwt}
}

func (p *LocalAuthProvider) SignUp(ctx context.Context, emailAddr, password string) (domain.Identity, domain.Session, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" {
		return domain.Identity{}, domain.Session{}, ErrInvalidEmail
	}
	if password == "" {
		return domain.Identity{}, domain.Session{}, ErrInvalidCredentials
	}

	_, err := p.identities.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.Identity{}, domain.Session{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, domain.Session{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}

	identity := domain.Identity{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: string(hashBytes),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.identities.Create(ctx, identity); err != nil {
		return domain.Identity{}, domain.Session{}, err
	}

	session, err := p.jwt.GeneratePair(identity)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	return identity, session, nil
}

func (p *LocalAuthProvider) SignInWithPassword(ctx context.Context, emailAddr, password string) (domain.Identity, domain.Session, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.Identity{}, domain.Session{}, ErrInvalidCredentials
	}

	identity, err := p.identities.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, domain.Session{}, ErrInvalidCredentials
		}
		return domain.Identity{}, domain.Session{}, err
	}
	if identity.PasswordHash == "" {
		return domain.Identity{}, domain.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, domain.Session{}, ErrInvalidCredentials
	}

	session, err := p.jwt.GeneratePair(identity)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	return identity, session, nil
}

func (p *LocalAuthProvider) GetUser(ctx context.Context, accessToken string) (domain.Identity, error) {
	claims, err := p.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return domain.Identity{}, err
	}
	identity, err := p.identities.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, ErrJWTInvalid
		}
		return domain.Identity{}, err
	}
	return identity, nil
}

// RefreshSession rota el refresh token: se emite un par completamente nuevo
// y el jti viejo queda revocado recién después. Un fallo transitorio antes
// de emitir el par deja el token original usable para reintentar.
func (p *LocalAuthProvider) RefreshSession(ctx context.Context, refreshToken string) (domain.Identity, domain.Session, error) {
	claims, err := p.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	identity, err := p.identities.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, domain.Session{}, ErrJWTInvalid
		}
		return domain.Identity{}, domain.Session{}, err
	}
	session, err := p.jwt.rotateFrom(claims.ID, identity)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	return identity, session, nil
}

func (p *LocalAuthProvider) SignOut(_ context.Context, refreshToken string) error {
	return p.jwt.RevokeRefresh(refreshToken)
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}
