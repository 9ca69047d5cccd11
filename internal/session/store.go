// Package session owns the session-scoped filter state: the reconciler
// that coalesces rapid filter toggles into a single applied value, and the
// store those applied values mirror into so other screens (and the browse
// endpoint) observe them.  The store is an explicit, injected side channel
// rather than an ambient singleton.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a per-session key/value bag.  Get distinguishes between "key is
// populated" and "key was never written"; favorite-preset seeding relies on
// that distinction to detect dimensions the user already touched.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store used in tests and when Redis is
// unavailable.  It never returns an error.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// RedisStore scopes keys to one user under a common prefix with a TTL, so
// filter selections persist across screens and app restarts within a
// session window but eventually expire on their own.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a store for one user's session.  A zero ttl keeps
// keys until they are deleted.
func NewRedisStore(rdb *redis.Client, userID uint64, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: fmt.Sprintf("session:%d:", userID),
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.prefix+key, value, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
