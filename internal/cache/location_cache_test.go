package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (LocationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisLocationCache(context.Background(), mr.Addr(), "", 0, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisLocationCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, c.Set(ctx, 12, Location{Latitude: -6.22, Longitude: 106.85, UpdatedAt: now}))

	assert.True(t, mr.Exists("pickup:12:location"))

	loc, ok, err := c.Get(ctx, 12)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, -6.22, loc.Latitude)
	assert.Equal(t, 106.85, loc.Longitude)
	assert.True(t, now.Equal(loc.UpdatedAt))
}

func TestRedisLocationCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	loc, ok, err := c.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, loc)
}

func TestRedisLocationCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 5, Location{Latitude: 1, Longitude: 2, UpdatedAt: time.Now()}))
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocationCache_Delete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 7, Location{Latitude: 1, Longitude: 2, UpdatedAt: time.Now()}))
	require.NoError(t, c.Delete(ctx, 7))

	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisLocationCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisLocationCache(context.Background(), addr, "", 0, time.Minute)
	assert.Error(t, err)
}

func TestNopLocationCache(t *testing.T) {
	c := NewNopLocationCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, Location{Latitude: 1}))
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
