package service

import (
	"strings"
	"sync"
	"time"
)

// LoginRateLimiter limita intentos de login por email.
type LoginRateLimiter interface {
	Allow(key string) bool
}

type memoryLoginRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	counts  map[string]int
	resetAt map[string]time.Time
}

func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &memoryLoginRateLimiter{
		window:  window,
		max:     max,
		counts:  make(map[string]int),
		resetAt: make(map[string]time.Time),
	}
}

func (l *memoryLoginRateLimiter) Allow(key string) bool {
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	if reset, ok := l.resetAt[normalizedKey]; !ok || now.After(reset) {
		l.counts[normalizedKey] = 0
		l.resetAt[normalizedKey] = now.Add(l.window)
	}
	l.counts[normalizedKey]++
	return l.counts[normalizedKey] <= l.max
}
