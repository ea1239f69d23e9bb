// Package cache provides the Redis-backed key/value cache of the API
// service.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/homelab-dev/homelab/internal/api/config"
)

// Cached values expire after an hour.
const defaultTTL = time.Hour

var (
	// ErrKeyNotFound is returned when the key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnavailable is returned when Redis cannot be reached.
	ErrUnavailable = errors.New("redis unavailable")
)

// Cache stores string values in Redis with a fixed expiry.
type Cache struct {
	client redis.Cmdable
}

// New creates a cache for the configured Redis instance.
func New(settings config.RedisSettings) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{Addr: settings.Addr()})}
}

// NewWithClient creates a cache around an existing client. Primarily used
// for testing.
func NewWithClient(client redis.Cmdable) *Cache {
	return &Cache{client: client}
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()

	switch {
	case errors.Is(err, redis.Nil):
		return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return value, nil
}

// Set stores value under key with the default expiry.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	err := c.client.Set(ctx, key, value, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	err := c.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
