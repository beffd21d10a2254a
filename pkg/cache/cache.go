// Package cache wraps an optional redis client. A nil client disables caching:
// every Get misses and every Set or Invalidate is a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Connect returns nil when addr is empty or redis does not answer, so the
// application keeps working without a cache.
func Connect(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		log.Printf("REDIS_ADDR not set, caching disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to redis at %s, caching disabled: %v", addr, err)
		rdb.Close()
		return nil
	}
	log.Printf("Connected to redis at %s", addr)
	return rdb
}

func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Generation returns the current cache generation. Readers take it before
// loading the data they are about to cache; Invalidate moves it forward, so a
// value computed before a write lands under a generation nobody reads again.
func (c *Cache) Generation(ctx context.Context) int64 {
	if !c.Enabled() {
		return 0
	}
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("cache generation: %v", err)
	}
	return gen
}

func (c *Cache) generationKey() string { return c.prefix + "generation" }

func (c *Cache) key(gen int64, key string) string {
	return c.prefix + strconv.FormatInt(gen, 10) + ":" + key
}

// Get decodes a value cached for gen into dst and reports whether it was found.
func (c *Cache) Get(ctx context.Context, gen int64, key string, dst interface{}) bool {
	if !c.Enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, c.key(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, gen int64, key string, value interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(gen, key), data, c.ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Invalidate starts a new generation. Entries of older generations expire
// with their TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, c.generationKey()).Err(); err != nil {
		log.Printf("cache invalidate: %v", err)
	}
}
