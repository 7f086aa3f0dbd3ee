package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// Cache implements domain.Cache on a Redis server. Entry expiry is delegated
// to Redis key TTLs.
type Cache struct {
	client *goredis.Client
}

// Options configure the connection to Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewCache connects a Redis-backed cache. The connection is lazy; call Ping to
// verify it.
func NewCache(opts Options) *Cache {
	return NewCacheFromClient(goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}))
}

// NewCacheFromClient wraps an existing client.
func NewCacheFromClient(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

// Has reports whether key exists.
func (c *Cache) Has(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Get returns the value for key or domain.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

// Put stores value under key. A non-positive ttl stores it without expiry.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity; it serves as a readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
