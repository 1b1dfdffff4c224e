package availability

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a computed range is served without
// recomputation.
const DefaultCacheTTL = 5 * time.Minute

// Cache memoizes computed availability maps per range key. Implementations
// must be safe for concurrent use. Concurrent writers for the same key may
// race; that is acceptable because the computation is deterministic and the
// write idempotent.
type Cache interface {
	Get(ctx context.Context, key string) (AvailabilityMap, bool)
	Set(ctx context.Context, key string, value AvailabilityMap)
	Invalidate(ctx context.Context, key string)
	InvalidateAll(ctx context.Context)
}

type memoryEntry struct {
	value    AvailabilityMap
	storedAt time.Time
}

// MemoryCache is the in-process Cache used when Redis is not configured.
// Stale entries are treated as invalid on read, never proactively evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates a memory cache with the given TTL. A non-positive
// TTL falls back to DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (AvailabilityMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value AvailabilityMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, storedAt: c.now()}
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}
