package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyOrderIndependent(t *testing.T) {
	a := BuildKey("categories", map[string]string{
		"shop": "4", "lang": "2", "page": "1", "pageSize": "50",
	})
	b := BuildKey("categories", map[string]string{
		"pageSize": "50", "page": "1", "lang": "2", "shop": "4",
	})
	assert.Equal(t, a, b)
	assert.Equal(t, "categories?lang=2&page=1&pageSize=50&shop=4", a)
}

func TestBuildKeyOmitsEmptyDimensions(t *testing.T) {
	withEmpty := BuildKey("products", map[string]string{
		"shop": "1", "lang": "", "sort": "",
	})
	without := BuildKey("products", map[string]string{"shop": "1"})
	assert.Equal(t, without, withEmpty)
	assert.Equal(t, "products?shop=1", withEmpty)
}

func TestBuildKeyNoDimensions(t *testing.T) {
	assert.Equal(t, "shops", BuildKey("shops", nil))
	assert.Equal(t, "shops", BuildKey("shops", map[string]string{"x": ""}))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(8, time.Minute)

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	store.Set(ctx, "k", "v", time.Minute)
	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	store.Delete(ctx, "k")
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStorePerEntryTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(8, time.Minute)
	store.Set(ctx, "k", "v", 50*time.Millisecond)

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(80 * time.Millisecond)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok, "entry expires on its own TTL, not the store default")
}

func TestMemoryStoreDefaultTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(8, 20*time.Millisecond)
	store.Set(ctx, "k", "v", 0)

	_, ok := store.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok, "entries without a TTL expire on the store default")
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, time.Minute)
	store.Set(ctx, "a", "1", time.Minute)
	store.Set(ctx, "b", "2", time.Minute)
	store.Set(ctx, "c", "3", time.Minute)

	_, ok := store.Get(ctx, "a")
	assert.False(t, ok, "oldest entry evicted at capacity")
	_, ok = store.Get(ctx, "c")
	assert.True(t, ok)
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	store, err := New(context.Background(), Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestFactoryRejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Options{Backend: "memcached"})
	assert.Error(t, err)
}
