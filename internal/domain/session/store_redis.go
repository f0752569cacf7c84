// internal/domain/session/store_redis.go
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const tokenKey = "auth_token"

// RedisStore shares one token between every client pointed at the same Redis.
type RedisStore struct {
	redis *redis.Client
	key   string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		redis: client,
		key:   prefix + tokenKey,
	}
}

// NewRedisClient builds a client from a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.redis.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session: redis get: %w", err)
	}
	return token, nil
}

// Save stores the token without expiry; the backend decides when it is stale.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
