// Package cache implements the short-TTL read-through cache that shields the
// hot public read endpoints from repeated database queries.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the fixed lifetime of every entry from the moment it is set.
const DefaultTTL = 120 * time.Second

// Cache keys for the resources served through the cache. Every mutation of
// the underlying resource must invalidate the matching key before the
// response is written.
const (
	KeyAllTeamMembers  = "teams:all"
	KeyAllTestimonials = "testimonials:all"
)

// Store is a key-value cache with TTL and explicit invalidation. It is
// constructed once at startup and passed to every consumer; there is no
// package-level instance.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache store with DefaultTTL.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: DefaultTTL}
}

// Get returns the cached value and true on a hit. A missing key is a miss,
// not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores the value with the fixed TTL measured from now.
func (s *Store) Set(ctx context.Context, key string, val []byte) error {
	if err := s.rdb.Set(ctx, key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Invalidate removes the given keys immediately, regardless of remaining TTL.
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate %v: %w", keys, err)
	}
	return nil
}
