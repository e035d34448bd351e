package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"socialink/internal/domain"
)

type mockIdentityRepo struct {
	byID       map[string]domain.Identity
	byEmail    map[string]string
	getByIDErr error
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{
		byID:    make(map[string]domain.Identity),
		byEmail: make(map[string]string),
	}
}

func (m *mockIdentityRepo) Create(_ context.Context, identity domain.Identity) error {
	m.byID[identity.ID] = identity
	m.byEmail[identity.Email] = identity.ID
	return nil
}

func (m *mockIdentityRepo) GetByID(_ context.Context, id string) (domain.Identity, error) {
	if m.getByIDErr != nil {
		return domain.Identity{}, m.getByIDErr
	}
	identity, ok := m.byID[id]
	if !ok {
		return domain.Identity{}, pgx.ErrNoRows
	}
	return identity, nil
}

func (m *mockIdentityRepo) GetByEmail(_ context.Context, email string) (domain.Identity, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.Identity{}, pgx.ErrNoRows
	}
	return m.byID[id], nil
}

func newTestProvider() (*LocalAuthProvider, *mockIdentityRepo, *JWTService) {
	repo := newMockIdentityRepo()
	jwtSvc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())
	return NewLocalAuthProvider(repo, jwtSvc), repo, jwtSvc
}

func TestLocalAuthProvider_SignUpAndGetUser(t *testing.T) {
	provider, _, _ := newTestProvider()

	identity, session, err := provider.SignUp(context.Background(), "User@Example.com", "secret123")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if identity.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", identity.Email)
	}

	resolved, err := provider.GetUser(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if resolved.ID != identity.ID {
		t.Fatalf("expected %s, got %s", identity.ID, resolved.ID)
	}
}

func TestLocalAuthProvider_SignUpDuplicateEmail(t *testing.T) {
	provider, _, _ := newTestProvider()

	if _, _, err := provider.SignUp(context.Background(), "user@example.com", "secret123"); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, _, err := provider.SignUp(context.Background(), "user@example.com", "other456"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLocalAuthProvider_SignInWithPassword(t *testing.T) {
	provider, _, _ := newTestProvider()

	if _, _, err := provider.SignUp(context.Background(), "user@example.com", "secret123"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, _, err := provider.SignInWithPassword(context.Background(), "user@example.com", "secret123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, _, err := provider.SignInWithPassword(context.Background(), "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := provider.SignInWithPassword(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLocalAuthProvider_GetUserExpiredToken(t *testing.T) {
	provider, repo, _ := newTestProvider()
	_ = repo.Create(context.Background(), domain.Identity{ID: "u1", Email: "user@example.com"})

	expired := signTestToken(t, "secret", "socialink", "access", -time.Minute)
	if _, err := provider.GetUser(context.Background(), expired); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestLocalAuthProvider_RefreshSessionRotates(t *testing.T) {
	provider, _, _ := newTestProvider()

	identity, session, err := provider.SignUp(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	refreshedIdentity, refreshed, err := provider.RefreshSession(context.Background(), session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh session: %v", err)
	}
	if refreshedIdentity.ID != identity.ID {
		t.Fatalf("expected same identity after refresh")
	}
	if refreshed.RefreshToken == session.RefreshToken {
		t.Fatalf("expected a rotated refresh token")
	}

	if _, _, err := provider.RefreshSession(context.Background(), session.RefreshToken); err == nil {
		t.Fatalf("expected old refresh token to be unusable")
	}
}

func TestLocalAuthProvider_RefreshSurvivesTransientLookupFailure(t *testing.T) {
	provider, repo, _ := newTestProvider()

	_, session, err := provider.SignUp(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	repo.getByIDErr = errors.New("connection reset")
	if _, _, err := provider.RefreshSession(context.Background(), session.RefreshToken); err == nil {
		t.Fatalf("expected refresh to fail while the lookup fails")
	}

	// El fallo transitorio no consumió el token: el reintento funciona.
	repo.getByIDErr = nil
	if _, _, err := provider.RefreshSession(context.Background(), session.RefreshToken); err != nil {
		t.Fatalf("expected refresh token to survive a transient failure: %v", err)
	}
}

func TestLocalAuthProvider_SignOutRevokesRefresh(t *testing.T) {
	provider, _, _ := newTestProvider()

	_, session, err := provider.SignUp(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := provider.SignOut(context.Background(), session.RefreshToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, _, err := provider.RefreshSession(context.Background(), session.RefreshToken); err == nil {
		t.Fatalf("expected refresh to fail after sign out")
	}
}
