package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-memory key store with expiration. Used as the
// dedup backend in tests and single-instance deployments where redis is
// not available.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]time.Time),
	}

	// Cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

// SetIfAbsent returns true when the key was newly claimed, false when a
// live entry already holds it
func (ms *MemoryStore) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if expiry, exists := ms.items[key]; exists && time.Now().Before(expiry) {
		return false, nil
	}

	ms.items[key] = time.Now().Add(ttl)
	return true, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, expiry := range ms.items {
			if now.After(expiry) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
