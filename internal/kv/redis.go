package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gvirgo2/touropia/config"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds the production KV store. ttl bounds how long idle
// session records survive; zero means no expiry.
func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, sessionKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, sessionKey(key), value, s.ttl).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, sessionKey(key)).Err()
}

func sessionKey(key string) string {
	return "session:" + key
}

var _ Store = (*RedisStore)(nil)
