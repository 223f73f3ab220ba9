package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfuel-aero/skyfuel-platform/internal/cache"
	"github.com/skyfuel-aero/skyfuel-platform/internal/config"
)

func TestMemoryStore_AllowsUnderLimitBlocksOver(t *testing.T) {
	store := NewMemoryStore(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := store.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d within burst should pass", i+1)
	}

	ok, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "request over the burst should be blocked")

	// A different client is unaffected.
	ok, err = store.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_SweepEvictsIdleEntries(t *testing.T) {
	store := NewMemoryStore(3, time.Minute)
	ctx := context.Background()

	clock := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	_, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	_, err = store.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)

	// Nothing is idle yet.
	assert.Equal(t, 0, store.Sweep())

	// One client stays active past the idle cutoff, the other goes
	// quiet and is evicted.
	clock = clock.Add(3 * time.Minute)
	_, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)

	clock = clock.Add(90 * time.Second)
	assert.Equal(t, 1, store.Sweep())

	_, stillThere := store.limiters["10.0.0.1"]
	assert.True(t, stillThere)
	_, gone := store.limiters["10.0.0.2"]
	assert.False(t, gone)
}

func TestRedisStore_FixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	store := NewRedisStore(c, 2, time.Minute)
	ctx := context.Background()

	ok, err := store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Window rollover resets the counter.
	mr.FastForward(2 * time.Minute)
	ok, err = store.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_FailsOpenOnBrokenRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)

	mr.Close()

	store := NewRedisStore(c, 2, time.Minute)
	ok, err := store.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, ok, "a redis outage must not lock clients out")
}
