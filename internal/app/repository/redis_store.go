package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "sf:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by Redis. A zero ttl keeps keys forever;
// otherwise every write refreshes the expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Read(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		logger.Error("Failed to read key from redis", err, map[string]interface{}{
			"key": key,
		})
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

func (s *redisStore) Write(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKey(key), value, s.ttl).Err(); err != nil {
		logger.Error("Failed to write key to redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		logger.Error("Failed to delete key from redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}
