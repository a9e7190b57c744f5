package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the flag in redis so it survives restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed gate.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Activate sets the flag with no expiry.
func (s *RedisStore) Activate(ctx context.Context) error {
	return s.client.Set(ctx, FlagKey, "true", 0).Err()
}

// Clear removes the flag.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, FlagKey).Err()
}

// Active reads the flag; a missing key is simply false.
func (s *RedisStore) Active(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, FlagKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val == "true", nil
}

var _ Store = (*RedisStore)(nil)
