package localstore

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Redis is a Store backed by a redis instance, for deployments that want
// snapshots to survive the local filesystem or be shared across hosts.
// Keys are namespaced under "storefront:".
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("localstore: redis ping %s: %w", addr, err)
	}
	return &Redis{client: client, ctx: ctx}, nil
}

func redisKey(key string) string {
	return "storefront:" + key
}

// Get implements Store.
func (r *Redis) Get(key string) ([]byte, bool, error) {
	value, err := r.client.Get(r.ctx, redisKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("localstore: redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store.
func (r *Redis) Set(key string, value []byte) error {
	if err := r.client.Set(r.ctx, redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("localstore: redis set %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(key string) error {
	if err := r.client.Del(r.ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("localstore: redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
