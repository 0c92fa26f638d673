package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLock реализация Locker поверх Redis SET NX.
// TTL страхует от зависших удержаний при падении процесса
type RedisLock struct {
	client *redis.Client
}

// NewRedisLock создает клиент Redis и проверяет соединение
func NewRedisLock(addr string, dialTimeout time.Duration) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("lock: failed to connect to redis: %w", err)
	}

	return &RedisLock{client: client}, nil
}

func (r *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := r.client.SetNX(ctx, "hold:"+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock: failed to acquire %q: %w", key, err)
	}
	return acquired, nil
}

func (r *RedisLock) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, "hold:"+key).Err(); err != nil {
		return fmt.Errorf("lock: failed to release %q: %w", key, err)
	}
	return nil
}

func (r *RedisLock) Close() error {
	return r.client.Close()
}
