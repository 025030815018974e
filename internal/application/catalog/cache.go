// Package catalog implements the storefront catalog read models on top of
// the legacy webservice, with response caching in front of every listing.
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/cache"
)

// cacheLoad fills out from a cached JSON entry. A corrupt entry reads as a
// miss and will be overwritten by the next store.
func cacheLoad(ctx context.Context, store cache.Store, key string, out any) bool {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

// cacheStore writes a JSON entry, dropping it on marshal failure.
func cacheStore(ctx context.Context, store cache.Store, logger *zap.Logger, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache entry not serializable", zap.String("key", key), zap.Error(err))
		return
	}
	store.Set(ctx, key, string(raw), ttl)
}
