package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"socialink/internal/domain"
	"socialink/internal/email"
	"socialink/internal/repository"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrRateLimited    = errors.New("rate limited")
)

// SessionService coordina el ciclo de vida de la sesión de dos tokens.
// El servidor no guarda sesiones: ambos tokens viven en cookies del
// cliente y aquí solo se emiten, validan y refrescan.
type SessionService struct {
	logger   *zap.Logger
	provider AuthProvider
	users    repository.UserRepository
	profiles repository.ProfileRepository
	mailer   email.Sender
	limiter  LoginRateLimiter
}

func NewSessionService(
	logger *zap.Logger,
	provider AuthProvider,
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	mailer email.Sender,
	limiter LoginRateLimiter,
) *SessionService {
	return &SessionService{
		logger:   logger,
		provider: provider,
		users:    users,
		profiles: profiles,
		mailer:   mailer,
		limiter:  limiter,
	}
}

type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignUp crea la identidad en el proveedor y después las filas users y
// user_profiles. Si esa segunda parte falla, la identidad ya creada NO se
// revierte: el error se propaga igual y el cliente no recibe cookies.
func (s *SessionService) SignUp(ctx context.Context, in SignUpInput) (domain.Identity, domain.Session, error) {
	if s.provider == nil {
		return domain.Identity{}, domain.Session{}, errors.New("session service not configured")
	}

	identity, session, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}

	user := domain.User{
		ID:        identity.ID,
		Email:     identity.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	if err := s.profiles.Create(ctx, domain.UserProfile{UserID: identity.ID}); err != nil {
		return domain.Identity{}, domain.Session{}, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, identity.Email, in.FirstName); err != nil {
			s.logger.Warn("welcome email failed", zap.Error(err), zap.String("email", identity.Email))
		}
	}

	return identity, session, nil
}

func (s *SessionService) Login(ctx context.Context, emailAddr, password string) (domain.Identity, domain.Session, error) {
	if s.provider == nil {
		return domain.Identity{}, domain.Session{}, errors.New("session service not configured")
	}
	if s.limiter != nil && !s.limiter.Allow(normalizeEmail(emailAddr)) {
		return domain.Identity{}, domain.Session{}, ErrRateLimited
	}
	return s.provider.SignInWithPassword(ctx, emailAddr, password)
}

// Logout nunca falla hacia el cliente: la invalidación en el proveedor es
// best-effort y cualquier error solo se registra.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) {
	if s.provider == nil || refreshToken == "" {
		return
	}
	if err := s.provider.SignOut(ctx, refreshToken); err != nil {
		s.logger.Warn("sign out at provider failed", zap.Error(err))
	}
}

// Resolve valida la sesión con refresh transparente.
//
// Con ambos tokens presentes intenta resolver la identidad con el access
// token. Si el fallo es de token (expirado o inválido) intenta un refresh;
// si el refresh también falla la sesión está vencida y el cliente debe
// volver a loguearse. Cualquier otro fallo del proveedor se propaga como
// error de servidor, no de sesión.
//
// Cuando hay refresh, la sesión devuelta es no-nil y el caller debe
// reemplazar AMBAS cookies antes de escribir el body.
func (s *SessionService) Resolve(ctx context.Context, accessToken, refreshToken string) (domain.Identity, *domain.Session, error) {
	if accessToken == "" || refreshToken == "" {
		return domain.Identity{}, nil, ErrUnauthorized
	}

	identity, err := s.provider.GetUser(ctx, accessToken)
	if err == nil {
		return identity, nil, nil
	}

	if !errors.Is(err, ErrJWTExpired) && !errors.Is(err, ErrJWTInvalid) {
		return domain.Identity{}, nil, err
	}

	identity, session, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("session refresh failed", zap.Error(err))
		return domain.Identity{}, nil, ErrSessionExpired
	}
	return identity, &session, nil
}
