package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.KVStore = RedisKV{}

type RedisKV struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisKV connects to addr and pings it. A zero ttl keeps keys forever.
func NewRedisKV(
	ctx context.Context, addr, password string, db int, ttl time.Duration,
) (RedisKV, error) {
	const op = "RedisKV"
	log := slog.With("op", op)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return RedisKV{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	log.Info("redis is available", "addr", addr)
	return RedisKV{client: client, ttl: ttl}, nil
}

func (s RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "RedisKV.Get"

	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return v, true, nil
}

func (s RedisKV) Set(ctx context.Context, key string, value string) error {
	const op = "RedisKV.Set"

	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisKV) Remove(ctx context.Context, key string) error {
	const op = "RedisKV.Remove"

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisKV) Close() {
	const op = "RedisKV.Close"
	log := slog.With("op", op)

	log.Info("closing redis client...")
	if err := s.client.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
