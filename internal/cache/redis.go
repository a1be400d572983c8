// Package cache provides the Redis-backed ephemeral store used for verification
// codes, the token blacklist, and the session cache. All operations are single-key
// with TTLs; Redis guarantees per-key atomicity, so no application-level locking
// is layered on top.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps a Redis client with the small set/get/delete-with-TTL surface
// the auth service needs.
type Store struct {
	rdb *redis.Client
}

// New returns a Store for the given Redis address. password may be empty and
// db is the logical database index. Caller must call Close when done.
func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Ping verifies connectivity. Called once at startup; failure is fatal there.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Set stores value under key with the given TTL. A ttl of zero means no expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Get returns the value for key and whether it exists.
// It returns an error only for Redis failures, not for missing keys.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
