// Package memory provides in-memory cache repository implementation
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/snacktrack/assessor/internal/ports/outbound"
)

// DefaultTTL applies when Set is called with a non-positive TTL
const DefaultTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository is a process-local cache used when Redis is disabled.
// Expired items are dropped lazily and by Cleanup.
type CacheRepository struct {
	mu   sync.RWMutex
	data map[string]cacheItem
	now  func() time.Time
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a copy of a cached value
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	if !ok || !r.now().Before(item.expiresAt) {
		return nil, outbound.ErrCacheMiss
	}

	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

// Set stores a copy of value with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	r.mu.Lock()
	r.data[key] = cacheItem{value: stored, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

// Delete removes keys from cache
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		delete(r.data, key)
	}
	return nil
}

// Exists checks if an unexpired key exists
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.data[key]
	return ok && r.now().Before(item.expiresAt), nil
}

// Len returns the number of stored items, expired ones included
func (r *CacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Cleanup removes expired items
func (r *CacheRepository) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for key, item := range r.data {
		if !now.Before(item.expiresAt) {
			delete(r.data, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every interval until ctx is cancelled
func (r *CacheRepository) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}
