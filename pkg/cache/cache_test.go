package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type payload struct {
	Total int `json:"total"`
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled cache never hits", func(t *testing.T) {
		var c *Cache
		c.Set(ctx, 0, "k", payload{Total: 1})
		var got payload
		assert.False(t, c.Get(ctx, 0, "k", &got))
		c.Invalidate(ctx)
		assert.Equal(t, int64(0), c.Generation(ctx))

		assert.False(t, New(nil, "p:", time.Minute).Enabled())
	})

	t.Run("set, get and invalidate", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		c := New(rdb, "stats:", time.Minute)
		mr.Set("other", "keep")

		gen := c.Generation(ctx)
		assert.Equal(t, int64(0), gen)
		c.Set(ctx, gen, "all", payload{Total: 85})
		c.Set(ctx, gen, "2024-05", payload{Total: 10})

		var got payload
		assert.True(t, c.Get(ctx, gen, "all", &got))
		assert.Equal(t, 85, got.Total)
		assert.Equal(t, time.Minute, mr.TTL("stats:0:all"))

		c.Invalidate(ctx)
		next := c.Generation(ctx)
		assert.Equal(t, int64(1), next)
		assert.False(t, c.Get(ctx, next, "all", &got))
		assert.False(t, c.Get(ctx, next, "2024-05", &got))
		assert.True(t, mr.Exists("other"))
	})

	t.Run("late fill of an old generation is not visible", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		c := New(rdb, "stats:", time.Minute)

		gen := c.Generation(ctx)
		c.Invalidate(ctx)
		c.Set(ctx, gen, "all", payload{Total: 85})

		var got payload
		assert.False(t, c.Get(ctx, c.Generation(ctx), "all", &got))
	})

	t.Run("connect without address", func(t *testing.T) {
		assert.Nil(t, Connect(ctx, "", "", 0))
	})

	t.Run("connect to miniredis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := Connect(ctx, mr.Addr(), "", 0)
		assert.NotNil(t, rdb)
		rdb.Close()
	})
}
