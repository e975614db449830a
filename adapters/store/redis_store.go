package store

import (
	"context"
	"fmt"
	"time"

	"github.com/layer-3/walletauth/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the ReplayGuard interface
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a new Redis replay guard
func NewRedisStore(client redis.UniversalClient) ports.ReplayGuard {
	return &RedisStore{
		client: client,
		prefix: "walletauth:signature:",
	}
}

// Claim sets the key only if it is absent, so concurrent logins with the same
// signature race on Redis rather than in process.
func (s *RedisStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim signature: %w", err)
	}

	return ok, nil
}
