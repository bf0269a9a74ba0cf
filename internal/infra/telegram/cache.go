package telegram

import (
	"context"
	"sync"
	"time"
)

// CacheEntry maps a canonical phone number to a resolved telegram identity.
// MTProto addresses peers by (id, access_hash) pairs, so the hash is cached
// alongside the id; an id alone cannot be dialed again.
type CacheEntry struct {
	UserID     int64     `json:"user_id"`
	AccessHash int64     `json:"access_hash"`
	Username   string    `json:"username"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// ResolutionCache is shared across all dispatch workers. Entries older than
// the TTL are treated as absent. Implementations must be safe for concurrent
// use; this path is not hot enough to need anything beyond a single lock.
type ResolutionCache interface {
	Get(ctx context.Context, phone string) (CacheEntry, bool)
	Put(ctx context.Context, phone string, e CacheEntry)
	Invalidate(ctx context.Context, phone string)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache returns the in-process ResolutionCache used when no redis
// is configured.
func NewMemoryCache(ttl time.Duration) *memoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryCache{entries: make(map[string]CacheEntry), ttl: ttl, now: time.Now}
}

func (c *memoryCache) Get(_ context.Context, phone string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[phone]
	if !ok {
		return CacheEntry{}, false
	}
	if c.now().Sub(e.ResolvedAt) >= c.ttl {
		delete(c.entries, phone)
		return CacheEntry{}, false
	}
	return e, true
}

func (c *memoryCache) Put(_ context.Context, phone string, e CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = c.now()
	}
	c.entries[phone] = e
}

func (c *memoryCache) Invalidate(_ context.Context, phone string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, phone)
}
