// Package storage persists the dashboard collections as JSON values under
// string keys. The backend is chosen once at startup.
package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/redis/go-redis/v9"
)

// Store is the key-value contract the dashboard reads and writes through.
type Store interface {
	// Load decodes the value under key into dst. It reports false when the key has never been saved.
	Load(ctx context.Context, key string, dst interface{}) (bool, error)
	Save(ctx context.Context, key string, value interface{}) error
}

const (
	BackendLocal = "local"
	BackendRedis = "redis"
	BackendAPI   = "api"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// Options enumerates everything Open may need; unused fields are ignored.
type Options struct {
	Backend     string
	Path        string
	MaxSize     int64
	RedisClient *redis.Client
	APIURL      string
}

// Open builds the configured store. Remote backends fall back to the local
// directory when they fail, so edits are not lost while the server is down.
func Open(opts Options) (Store, error) {
	local, err := NewFileStore(opts.Path, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	switch opts.Backend {
	case "", BackendLocal:
		return local, nil
	case BackendRedis:
		if opts.RedisClient == nil {
			return nil, fmt.Errorf("redis backend requires a redis client")
		}
		return NewFallback(NewRedisStore(opts.RedisClient, "seguimiento:"), local), nil
	case BackendAPI:
		if opts.APIURL == "" {
			return nil, fmt.Errorf("api backend requires API_URL")
		}
		return NewFallback(NewAPIStore(opts.APIURL, nil), local), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
