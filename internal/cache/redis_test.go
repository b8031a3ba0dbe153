package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPage struct {
	Names []string `json:"names"`
	Total int64    `json:"total"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var missing cachedPage
	found, err := GetJSON(ctx, "directory:miss", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	page := cachedPage{Names: []string{"alice", "bob"}, Total: 2}
	require.NoError(t, SetJSON(ctx, "directory:page", page, time.Minute))

	var got cachedPage
	found, err = GetJSON(ctx, "directory:page", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, page, got)
}

func TestAside(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPage) func() error {
		return func() error {
			fetches++
			*dest = cachedPage{Names: []string{"alice"}, Total: 1}
			return nil
		}
	}

	var first cachedPage
	require.NoError(t, Aside(ctx, "directory:a", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)

	// Second call is served from the cache.
	var second cachedPage
	require.NoError(t, Aside(ctx, "directory:a", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)

	Invalidate(ctx, "directory:a")

	var third cachedPage
	require.NoError(t, Aside(ctx, "directory:a", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestAsideExpiry(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	var page cachedPage
	fetch := func() error {
		fetches++
		page = cachedPage{Total: int64(fetches)}
		return nil
	}

	require.NoError(t, Aside(ctx, "user:a", &page, UserTTL, fetch))
	mr.FastForward(UserTTL + time.Second)

	require.NoError(t, Aside(ctx, "user:a", &page, UserTTL, fetch))
	assert.Equal(t, 2, fetches)
}

func TestNilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var page cachedPage
	found, err := GetJSON(ctx, "user:x", &page)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "user:x", page, time.Minute))

	// Aside degrades to a plain fetch.
	fetched := false
	require.NoError(t, Aside(ctx, "user:x", &page, time.Minute, func() error {
		fetched = true
		return nil
	}))
	assert.True(t, fetched)

	InvalidateUser(ctx, "x")
}

func TestDirectoryKey(t *testing.T) {
	assert.Equal(t, "directory:yoga:evenings:20:0", DirectoryKey("yoga", "evenings", 20, 0))
	assert.Equal(t, UserKey("abc"), "user:abc")
}
