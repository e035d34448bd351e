package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore es la allow-list de jti de refresh tokens vivos. Un jti
// fuera del store ya fue rotado o revocado y el token que lo lleva no sirve.
type RefreshTokenStore interface {
	Store(jti, userID string, ttl time.Duration) error
	Exists(jti string) (bool, error)
	Revoke(jti string) error
}

// memoryRefreshTokenStore guarda la expiración de cada jti en memoria. Los
// vencidos se barren de forma oportunista en cada Store para que el mapa no
// crezca con sesiones abandonadas.
type memoryRefreshTokenStore struct {
	mu        sync.Mutex
	expiresAt map[string]time.Time
	lastSweep time.Time
}

const memorySweepInterval = time.Minute

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		expiresAt: make(map[string]time.Time),
		lastSweep: time.Now().UTC(),
	}
}

func (s *memoryRefreshTokenStore) Store(jti, _ string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.expiresAt[jti] = now.Add(ttl)
	return nil
}

func (s *memoryRefreshTokenStore) Exists(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expiresAt[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.expiresAt, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiresAt, jti)
	return nil
}

// sweepLocked se llama con el mutex tomado.
func (s *memoryRefreshTokenStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < memorySweepInterval {
		return
	}
	for jti, exp := range s.expiresAt {
		if now.After(exp) {
			delete(s.expiresAt, jti)
		}
	}
	s.lastSweep = now
}

// redisRefreshTokenStore delega la expiración en el TTL de Redis; el valor
// de cada clave es el userID dueño del token, útil para inspección manual.
type redisRefreshTokenStore struct {
	client *redis.Client
}

const redisRefreshKeyPrefix = "auth:refresh:"

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{client: client}
}

func (s *redisRefreshTokenStore) key(jti string) string {
	return redisRefreshKeyPrefix + jti
}

func (s *redisRefreshTokenStore) Store(jti, userID string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.key(jti), userID, ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.key(jti)).Err()
}
