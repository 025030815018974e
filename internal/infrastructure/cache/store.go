// Package cache provides the response cache used in front of the legacy
// webservice. Backends are interchangeable; a failing backend degrades to
// cache misses and never fails a request.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Store is a string cache with per-entry TTL. Implementations never return
// errors: a broken backend reports misses on Get and drops writes on Set.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// BuildKey renders a cache key from a prefix and request dimensions. Keys
// are order-independent: dimensions are sorted by name, empty values are
// omitted, and entries join as name=value pairs with "&".
func BuildKey(prefix string, dims map[string]string) string {
	names := make([]string, 0, len(dims))
	for name, value := range dims {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return prefix
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(dims[name])
	}
	return b.String()
}
