package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore backs the cache with a shared Redis. Backend failures are
// logged and swallowed so an unavailable Redis only costs cache hits.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore wraps an existing Redis client. prefix namespaces keys so
// several gateway instances can share one database.
func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get implements Store. Any backend error reads as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis get failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set implements Store. Write failures are dropped.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.logger.Warn("redis set failed, dropping entry",
			zap.String("key", key), zap.Error(err))
	}
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Warn("redis delete failed",
			zap.String("key", key), zap.Error(err))
	}
}
