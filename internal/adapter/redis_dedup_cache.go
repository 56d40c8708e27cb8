package adapter

import (
	"context"
	"time"

	"szexam/internal/cache"
	"szexam/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisDedupCache implements domain.DedupCache with one Redis set per month holding the
// content hashes of stored topics.
type RedisDedupCache struct {
	client *redis.Client
}

// NewRedisDedupCache creates a new instance of RedisDedupCache.
// It expects a connected *redis.Client.
func NewRedisDedupCache(client *redis.Client) domain.DedupCache {
	return &RedisDedupCache{client: client}
}

// Contains implements DedupCache.Contains
func (r *RedisDedupCache) Contains(ctx context.Context, month int, key string) (bool, error) {
	return r.client.SIsMember(ctx, cache.DedupSetKey(month), key).Result()
}

// Add implements DedupCache.Add. A zero expiration leaves the set without a TTL.
func (r *RedisDedupCache) Add(ctx context.Context, month int, expiration time.Duration, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	setKey := cache.DedupSetKey(month)
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	if err := r.client.SAdd(ctx, setKey, members...).Err(); err != nil {
		return err
	}
	if expiration > 0 {
		return r.client.Expire(ctx, setKey, expiration).Err()
	}
	return nil
}

// Ping checks the health of the Redis server.
func (r *RedisDedupCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
