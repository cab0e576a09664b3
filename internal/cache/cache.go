// Package cache is a thin redis layer for the read-heavy list endpoints
// (categories, items, members, coupons). Mutating handlers invalidate the
// matching list key. The whole layer is optional: with no REDIS_ADDR the
// helpers become no-ops and every read hits the database.
package cache

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pichoendo/pos-backoffice-api/internal/config"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// Connect dials redis when REDIS_ADDR is set. Returns whether caching is on.
func Connect() bool {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return false
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		config.GetLogger().WithError(err).Warn("redis unreachable, caching disabled")
		rdb = nil
		return false
	}
	return true
}

func Enabled() bool {
	return rdb != nil
}

// GetList loads a cached JSON list into dest. Returns false on miss,
// disabled cache, or any redis error (callers fall through to the DB).
func GetList(ctx context.Context, key string, dest any) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func SetList(ctx context.Context, key string, val any) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	rdb.Set(ctx, key, raw, config.CacheLifespan())
}

// Invalidate drops list keys after a mutation.
func Invalidate(ctx context.Context, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}
