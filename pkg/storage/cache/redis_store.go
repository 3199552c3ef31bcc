package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedStore decorates a storage.Backend with a Redis existence cache.
// Records are immutable, so a cached "exists" never goes stale.
type CachedStore struct {
	backend storage.Backend
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
}

type Config struct {
	RedisURL string        // redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // zero keeps keys forever
}

// NewCachedStore connects to Redis and fails fast when it is unreachable.
func NewCachedStore(backend storage.Backend, cfg Config, log *zap.Logger) (*CachedStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newWithClient(backend, client, cfg.TTL, log), nil
}

func newWithClient(backend storage.Backend, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{
		backend: backend,
		client:  client,
		ttl:     ttl,
		log:     log,
	}
}

// cacheKey namespaces object names in the shared keyspace.
func cacheKey(hash types.Hash) string {
	return "gitstore:obj:" + string(hash)
}

// Has asks Redis first. On a Redis error it degrades to the backend
// instead of failing the caller.
func (s *CachedStore) Has(ctx context.Context, hash types.Hash) (bool, error) {
	key := cacheKey(hash)

	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.log.Warn("redis unavailable, falling back to backend", zap.Error(err))
	} else if n > 0 {
		return true, nil
	}

	found, err := s.backend.Has(ctx, hash)
	if err != nil {
		return false, err
	}
	if found {
		s.remember(ctx, key)
	}
	return found, nil
}

func (s *CachedStore) Put(ctx context.Context, hash types.Hash, data []byte) error {
	exists, err := s.Has(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.backend.Put(ctx, hash, data); err != nil {
		return err
	}
	// only after the backend holds the record
	s.remember(ctx, cacheKey(hash))
	return nil
}

// Get passes through; record bodies are not cached in Redis.
func (s *CachedStore) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	return s.backend.Get(ctx, hash)
}

func (s *CachedStore) ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	return s.backend.ExpandHash(ctx, prefix)
}

// Walk passes through when the backend can enumerate.
func (s *CachedStore) Walk(ctx context.Context, fn func(types.Hash) error) error {
	w, ok := s.backend.(storage.Walker)
	if !ok {
		return fmt.Errorf("backend %T cannot enumerate objects", s.backend)
	}
	return w.Walk(ctx, fn)
}

// Close releases the Redis connection pool.
func (s *CachedStore) Close() error {
	return s.client.Close()
}

func (s *CachedStore) remember(ctx context.Context, key string) {
	if err := s.client.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		s.log.Debug("failed to fill existence cache", zap.String("key", key), zap.Error(err))
	}
}

var (
	_ storage.Backend = (*CachedStore)(nil)
	_ storage.Walker  = (*CachedStore)(nil)
)
