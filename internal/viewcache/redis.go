package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"povertymap/pkg/platform/sentinel"
)

// Redis is a Cache shared by every instance pointing at the same server.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing client; its lifecycle stays with the caller.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("view %q: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return body, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w: %w", key, sentinel.ErrUnavailable, err)
	}
	return nil
}
