package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/hadesigndz/Ha-Design/internal/domain/cart"
	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Caches bundles the stores built for the configured driver
type Caches struct {
	Products catalog.ListCache
	Carts    cart.Store
	Driver   string // driver actually in use after any fallback
	// Redis is the shared client when Driver is redis, nil otherwise
	Redis *redis.Client

	closers []io.Closer
}

// Ping checks the Redis connection; in-memory caches are always up
func (c *Caches) Ping(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Ping(ctx).Err()
}

// Close releases the Redis client or in-memory sweepers
func (c *Caches) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory builds caches based on configuration
type Factory struct {
	cfg                   config.Config
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(context.Context, config.RedisConfig) (*redis.Client, error)
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory caches. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new cache factory
func NewFactory(cfg config.Config, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial:                  NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build creates the product list cache and cart store
func (f *Factory) Build(ctx context.Context) (*Caches, error) {
	if f.cfg.Cache.Driver == config.CacheDriverRedis {
		client, err := f.dial(ctx, f.cfg.Redis)
		if err == nil {
			f.logger.Info("using Redis caches")
			return &Caches{
				Products: NewRedisProductListCache(client, f.cfg.Cache.KeyPrefix),
				Carts:    NewRedisCartStore(client, f.cfg.Cache.KeyPrefix, f.cfg.Cart.TTL),
				Driver:   config.CacheDriverRedis,
				Redis:    client,
				closers:  []io.Closer{client},
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for caches but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Carts will not be shared across instances.",
			zap.Error(err),
		)
	}
	return f.buildInMemory(), nil
}

func (f *Factory) buildInMemory() *Caches {
	carts := NewInMemoryCartStore(f.cfg.Cart.TTL)
	return &Caches{
		Products: NewInMemoryProductListCache(),
		Carts:    carts,
		Driver:   config.CacheDriverMemory,
		closers:  []io.Closer{carts},
	}
}
