package cache

import (
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResponseCache stores raw engine responses as JSON strings.
type RedisResponseCache struct {
	Client *redis.Client
}

func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{Client: client}
}

func (r *RedisResponseCache) Get(ctx context.Context, key string) (_ *ports.EngineResponse, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("route cache: client is nil")
	}

	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache key=%s: %w", key, err)
	}

	var resp ports.EngineResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, false, fmt.Errorf("decode route cache key=%s: %w", key, err)
	}

	return &resp, true, nil
}

// Set stores resp under key. A zero ttl keeps the entry until evicted.
func (r *RedisResponseCache) Set(ctx context.Context, key string, resp *ports.EngineResponse, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "route.cache.Set")(&err)

	if r.Client == nil {
		return errors.New("route cache: client is nil")
	}
	if resp == nil {
		return errors.New("route cache: nil response")
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode route cache key=%s: %w", key, err)
	}

	if err := r.Client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("set route cache key=%s: %w", key, err)
	}

	return nil
}
