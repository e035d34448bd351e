package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialink/internal/domain"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepo) ListWithProfiles(ctx context.Context) ([]domain.User, error) {
	return m.List(ctx)
}

func (m *mockUserRepo) GetManyByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *mockUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user.SavedProfiles = existing.SavedProfiles
	user.CreatedAt = existing.CreatedAt
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) UpdateImgURL(_ context.Context, id, imgURL string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	user.ImgURL = imgURL
	m.users[id] = user
	return user, nil
}

func (m *mockUserRepo) GetSavedProfiles(_ context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return append([]string(nil), user.SavedProfiles...), nil
}

func (m *mockUserRepo) AppendSavedProfile(_ context.Context, id, profileID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.SavedProfiles = append(user.SavedProfiles, profileID)
	m.users[id] = user
	return append([]string(nil), user.SavedProfiles...), nil
}

func (m *mockUserRepo) RemoveSavedProfile(_ context.Context, id, profileID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	filtered := make([]string, 0, len(user.SavedProfiles))
	for _, saved := range user.SavedProfiles {
		if saved != profileID {
			filtered = append(filtered, saved)
		}
	}
	user.SavedProfiles = filtered
	m.users[id] = user
	return append([]string(nil), user.SavedProfiles...), nil
}

func seedUser(repo *mockUserRepo, id string, saved []string) {
	_ = repo.Create(context.Background(), domain.User{ID: id, Email: id + "@example.com", SavedProfiles: saved})
}

func TestSavedProfiles_AddAllowsDuplicates(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", nil)
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	saved, err := svc.AddSaved(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("add saved: %v", err)
	}
	if len(saved) != 1 || saved[0] != "a" {
		t.Fatalf("expected [a], got %v", saved)
	}

	saved, err = svc.AddSaved(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("add saved again: %v", err)
	}
	if len(saved) != 2 || saved[0] != "a" || saved[1] != "a" {
		t.Fatalf("expected [a a], got %v", saved)
	}
}

func TestSavedProfiles_RemoveAllOccurrences(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", []string{"a", "b", "a"})
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	saved, err := svc.RemoveSaved(context.Background(), "u1", "a")
	if err != nil {
		t.Fatalf("remove saved: %v", err)
	}
	if len(saved) != 1 || saved[0] != "b" {
		t.Fatalf("expected [b], got %v", saved)
	}
}

func TestSavedProfiles_RemoveAbsentIsNoop(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", []string{"a"})
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	saved, err := svc.RemoveSaved(context.Background(), "u1", "zzz")
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(saved) != 1 || saved[0] != "a" {
		t.Fatalf("expected list unchanged, got %v", saved)
	}
}

func TestSavedProfiles_UnknownUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	if _, err := svc.AddSaved(context.Background(), "missing", "a"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetSaved(context.Background(), "missing"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSavedProfiles_GetSavedNilBecomesEmpty(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", nil)
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	saved, err := svc.GetSaved(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	if saved == nil || len(saved) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", saved)
	}
}

func TestSavedProfiles_ConcurrentAdds(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", nil)
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	var wg sync.WaitGroup
	for _, id := range []string{"x", "y"} {
		wg.Add(1)
		go func(profileID string) {
			defer wg.Done()
			if _, err := svc.AddSaved(context.Background(), "u1", profileID); err != nil {
				t.Errorf("add saved %s: %v", profileID, err)
			}
		}(id)
	}
	wg.Wait()

	saved, err := svc.GetSaved(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get saved: %v", err)
	}
	// Con appends atomicos en el store las dos escrituras sobreviven; el
	// contrato minimo es que al menos una lo haga.
	if len(saved) == 0 {
		t.Fatalf("expected at least one saved profile to survive")
	}
	for _, id := range saved {
		if id != "x" && id != "y" {
			t.Fatalf("unexpected entry %q in %v", id, saved)
		}
	}
}

func TestSavedProfiles_GetManyByIDs(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "u1", nil)
	seedUser(repo, "u2", nil)
	svc := NewSavedProfilesService(zap.NewNop(), repo)

	users, err := svc.GetManyByIDs(context.Background(), []string{"u1", "u2", "missing"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	empty, err := svc.GetManyByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("get many empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no users, got %v", empty)
	}
}
