package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
)

// snapshotRetention bounds how long a stale product list stays available
// as a fallback in Redis
const snapshotRetention = 7 * 24 * time.Hour

// RedisProductListCache stores the product list snapshot as JSON
type RedisProductListCache struct {
	client *redis.Client
	key    string
}

// NewRedisProductListCache creates a Redis-backed list cache
func NewRedisProductListCache(client *redis.Client, keyPrefix string) *RedisProductListCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisProductListCache{client: client, key: keyPrefix + "catalog:products"}
}

// Get returns the cached snapshot, nil on a miss
func (c *RedisProductListCache) Get(ctx context.Context) (*catalog.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product cache: %w", err)
	}
	var s catalog.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		// a corrupt entry behaves like a miss
		return nil, nil
	}
	return &s, nil
}

// Put replaces the cached snapshot
func (c *RedisProductListCache) Put(ctx context.Context, s *catalog.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode product cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, snapshotRetention).Err(); err != nil {
		return fmt.Errorf("failed to write product cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot
func (c *RedisProductListCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// InMemoryProductListCache keeps the snapshot in process memory
type InMemoryProductListCache struct {
	mu       sync.RWMutex
	snapshot *catalog.Snapshot
}

// NewInMemoryProductListCache creates an empty in-memory list cache
func NewInMemoryProductListCache() *InMemoryProductListCache {
	return &InMemoryProductListCache{}
}

// Get returns a copy of the cached snapshot
func (c *InMemoryProductListCache) Get(_ context.Context) (*catalog.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, nil
	}
	return cloneSnapshot(c.snapshot), nil
}

// Put replaces the cached snapshot
func (c *InMemoryProductListCache) Put(_ context.Context, s *catalog.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = cloneSnapshot(s)
	return nil
}

// Invalidate drops the cached snapshot
func (c *InMemoryProductListCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	return nil
}

func cloneSnapshot(s *catalog.Snapshot) *catalog.Snapshot {
	if s == nil {
		return nil
	}
	products := make([]catalog.Product, len(s.Products))
	copy(products, s.Products)
	return &catalog.Snapshot{Products: products, FetchedAt: s.FetchedAt}
}

var (
	_ catalog.ListCache = (*RedisProductListCache)(nil)
	_ catalog.ListCache = (*InMemoryProductListCache)(nil)
)
