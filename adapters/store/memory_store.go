package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/walletauth/ports"
)

// MemoryStore is an in-memory implementation of the ReplayGuard interface
type MemoryStore struct {
	seen map[string]time.Time
	mu   sync.Mutex
	now  func() time.Time
}

// NewMemoryStore creates a new in-memory replay guard
func NewMemoryStore() ports.ReplayGuard {
	return &MemoryStore{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Claim records key until ttl elapses
func (s *MemoryStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, exists := s.seen[key]; exists && now.Before(expiry) {
		return false, nil
	}

	expiryTime := now.Add(ttl)
	s.seen[key] = expiryTime

	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if the entry was not claimed again since
		if storedExpiry, exists := s.seen[key]; exists && !storedExpiry.After(expiryTime) {
			delete(s.seen, key)
		}
	})

	return true, nil
}
