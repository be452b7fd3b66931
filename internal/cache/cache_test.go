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

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Name = "from-db"
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, ItemKey(7), &first, ItemTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from-db", first.Name)

	// Second read is served from the cache without touching fetch.
	var second cachedThing
	require.NoError(t, Aside(ctx, ItemKey(7), &second, ItemTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_InvalidateForcesRefetch(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var v cachedThing
	fetch := func() error {
		fetches++
		v.Name = "fresh"
		return nil
	}

	require.NoError(t, Aside(ctx, ItemKey(3), &v, ItemTTL, fetch))
	Invalidate(ctx, ItemKey(3))
	require.NoError(t, Aside(ctx, ItemKey(3), &v, ItemTTL, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAside_NilClientFailsOpen(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var v cachedThing
	fetch := func() error {
		fetches++
		return nil
	}

	require.NoError(t, Aside(ctx, ItemKey(1), &v, ItemTTL, fetch))
	require.NoError(t, Aside(ctx, ItemKey(1), &v, ItemTTL, fetch))
	assert.Equal(t, 2, fetches, "without Redis every read goes to the fetcher")
}

func TestItemsListKey_VersionBumpChangesKey(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	before := ItemsListKey(ctx, "approved", "", 20, 0)
	InvalidateItemLists(ctx)
	after := ItemsListKey(ctx, "approved", "", 20, 0)

	assert.NotEqual(t, before, after,
		"bumping the listing version must address a different key")

	// Distinct pages and filters never share a key.
	assert.NotEqual(t,
		ItemsListKey(ctx, "approved", "", 20, 0),
		ItemsListKey(ctx, "approved", "", 20, 20))
	assert.NotEqual(t,
		ItemsListKey(ctx, "approved", "nature", 20, 0),
		ItemsListKey(ctx, "approved", "city", 20, 0))
}

func TestSetJSON_RespectsTTL(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(1), cachedThing{ID: 1}, time.Minute))

	var got cachedThing
	found, err := GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)

	mr.FastForward(2 * time.Minute)
	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)
}
