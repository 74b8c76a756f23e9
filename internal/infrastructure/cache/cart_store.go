package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps session carts in Redis. Every save renews the TTL.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store
func NewRedisCartStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisCartStore{client: client, keyPrefix: keyPrefix + "cart:", ttl: ttl}
}

// Get returns the session cart, or an empty one
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.New(sessionID), nil
	}
	c.SessionID = sessionID
	return &c, nil
}

// Save stores the cart
func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+c.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// Delete drops the session cart
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.keyPrefix+sessionID).Err()
}

type cartEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCartStore keeps carts in process memory for single-instance
// deployments and tests. Carts are stored encoded so callers never share
// state with the store.
type InMemoryCartStore struct {
	mu        sync.RWMutex
	entries   map[string]cartEntry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates a store and starts its expiry sweeper
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	s := &InMemoryCartStore{
		entries:  make(map[string]cartEntry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// Get returns the session cart, or an empty one
func (s *InMemoryCartStore) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return cart.New(sessionID), nil
	}
	var c cart.Cart
	if err := json.Unmarshal(e.data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// Save stores the cart
func (s *InMemoryCartStore) Save(_ context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	e := cartEntry{data: data}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[c.SessionID] = e
	s.mu.Unlock()
	return nil
}

// Delete drops the session cart
func (s *InMemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored carts, expired ones included
func (s *InMemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryCartStore) expired(e cartEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

func (s *InMemoryCartStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}

var (
	_ cart.Store = (*RedisCartStore)(nil)
	_ cart.Store = (*InMemoryCartStore)(nil)
)
