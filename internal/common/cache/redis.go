// internal/common/cache/redis.go
package cache

import (
	"context"
	"errors"
	"time"

	apperrors "estate-client/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared between processes. Each tag is a SET of the data
// keys stored under it.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "estate"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) dataKey(key string) string { return r.prefix + ":q:" + key }

func (r *Redis) tagKey(tag string) string { return r.prefix + ":tag:" + tag }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.dataKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheFailedError("get", err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	dk := r.dataKey(key)
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, dk, value, ttl)
		for _, t := range tags {
			tk := r.tagKey(t)
			p.SAdd(ctx, tk, dk)
			if ttl > 0 {
				// keep the index alive at least as long as its newest member
				p.Expire(ctx, tk, ttl)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.NewCacheFailedError("set", err)
	}
	return nil
}

func (r *Redis) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	removed := 0
	for _, t := range tags {
		tk := r.tagKey(t)
		members, err := r.client.SMembers(ctx, tk).Result()
		if err != nil {
			return removed, apperrors.NewCacheFailedError("smembers", err)
		}
		if len(members) > 0 {
			n, err := r.client.Del(ctx, members...).Result()
			if err != nil {
				return removed, apperrors.NewCacheFailedError("del", err)
			}
			removed += int(n)
		}
		if err := r.client.Del(ctx, tk).Err(); err != nil {
			return removed, apperrors.NewCacheFailedError("del", err)
		}
	}
	return removed, nil
}

// Clear scans and deletes every key under the prefix.
func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":*", 100).Result()
		if err != nil {
			return apperrors.NewCacheFailedError("scan", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.NewCacheFailedError("del", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
