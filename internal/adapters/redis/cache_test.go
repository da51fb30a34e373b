package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "reelmap/internal/adapters/redis"
	"reelmap/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	in := []domain.MatchedPlace{{PlaceID: "p1", DisplayName: "One", MatchConfidence: 0.91234, Types: []string{"cafe"}}}
	require.NoError(t, c.Set(ctx, "places:ABC", in, 60))
	assert.True(t, mr.Exists("reelmap:places:ABC"))

	var out []domain.MatchedPlace
	ok, err := c.Get(ctx, "places:ABC", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].PlaceID)
	assert.InDelta(t, 0.912, float64(out[0].MatchConfidence), 1e-9)

	require.NoError(t, c.Del(ctx, "places:ABC"))
	ok, err = c.Get(ctx, "places:ABC", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, 5))
	mr.FastForward(6 * time.Second)

	var out map[string]int
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	require.NoError(t, mr.Set("reelmap:bad", "{not json"))

	var out []domain.MatchedPlace
	ok, err := c.Get(context.Background(), "bad", &out)
	assert.False(t, ok)
	assert.Error(t, err)
}
