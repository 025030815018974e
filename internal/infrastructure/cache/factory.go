package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Backend names accepted by the factory.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and tunes the cache backend.
type Options struct {
	Backend string
	// Memory backend.
	Capacity   int
	DefaultTTL time.Duration
	// Redis backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string

	Logger *zap.Logger
}

// New builds the configured cache backend. The Redis backend pings once at
// startup; a failed ping is logged but still returns the store, since the
// cache degrades to misses rather than blocking boot.
func New(ctx context.Context, opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(opts.Capacity, opts.DefaultTTL), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, cache will serve misses",
				zap.String("addr", opts.RedisAddr), zap.Error(err))
		}
		return NewRedisStore(client, opts.KeyPrefix, logger), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", opts.Backend)
	}
}
