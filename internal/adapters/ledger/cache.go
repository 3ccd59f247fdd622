package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// RedisCache implements ports.Cache on Redis.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisCache creates a cache sharing the ledger's connection.
func NewRedisCache(rdb redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":cache:" + key
}

// Get implements ports.Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	if err != nil {
		return nil, unavailable("reading cache", err)
	}

	return value, nil
}

// Set implements ports.Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return unavailable("writing cache", err)
	}

	return nil
}

// Delete implements ports.Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return unavailable("deleting cache", err)
	}

	return nil
}

// sweepInterval is how often Set drops expired entries nobody reads again.
const sweepInterval = time.Minute

type memoryEntry struct {
	value  []byte
	expiry time.Time
}

// MemoryCache implements ports.Cache in process memory.
type MemoryCache struct {
	mu      sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryCache creates an empty cache. Expired entries are dropped on
// read and swept from Set at most once per sweepInterval.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements ports.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if ok && entry.expired(c.now()) {
		delete(c.entries, key)
		ok = false
	}

	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return append([]byte(nil), entry.value...), nil
}

// Set implements ports.Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweep(now)

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiry = now.Add(ttl)
	}

	c.entries[key] = entry

	return nil
}

// Delete implements ports.Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// sweep must be called with mu held.
func (c *MemoryCache) sweep(now time.Time) {
	if now.Sub(c.lastSweep) < sweepInterval {
		return
	}

	c.lastSweep = now

	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiry.IsZero() && !now.Before(e.expiry)
}
