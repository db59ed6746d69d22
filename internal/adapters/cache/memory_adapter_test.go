package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
)

func TestMemoryAdapter_GetSet(t *testing.T) {
	cache := NewMemoryAdapter(10, time.Hour)
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	value := []byte("payload")
	require.NoError(t, cache.Set(ctx, "k", value, 0))
	value[0] = 'X'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestMemoryAdapter_PerKeyExpiry(t *testing.T) {
	cache := NewMemoryAdapter(10, time.Hour)
	now := time.Now()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 60))
	_, err := cache.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(61 * time.Second)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_DeletePrefix(t *testing.T) {
	cache := NewMemoryAdapter(10, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "http:/api/network", []byte("a"), 0))
	require.NoError(t, cache.Set(ctx, "http:/api/specialties", []byte("b"), 0))
	require.NoError(t, cache.Set(ctx, "classify:123", []byte("c"), 0))

	require.NoError(t, cache.DeletePrefix(ctx, "http:"))

	_, err := cache.Get(ctx, "http:/api/network")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
	_, err = cache.Get(ctx, "classify:123")
	assert.NoError(t, err)
}

func TestMemoryAdapter_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewMemoryAdapter(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 0))

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
