package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type RedisSequenceCache struct {
	client *redis.Client
}

func NewRedisSequenceCache(addr string, password string, db int) *RedisSequenceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSequenceCache{client: client}
}

func (c *RedisSequenceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSequenceCache) Close() error {
	return c.client.Close()
}

func key(storeID string) string {
	return fmt.Sprintf("pos:order_seq:%s", storeID)
}

func (c *RedisSequenceCache) GetLastOrderNumber(ctx context.Context, storeID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, key(storeID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	last, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return last, true, nil
}

func (c *RedisSequenceCache) SetLastOrderNumber(ctx context.Context, storeID string, last int64, ttl time.Duration) error {
	return c.client.Set(ctx, key(storeID), last, ttl).Err()
}
