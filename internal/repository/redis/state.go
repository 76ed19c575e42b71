package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// StateStore implements repository.KeyValueStore using Redis.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a new Redis-backed key-value store. A zero ttl keeps
// entries forever.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the raw value stored under key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("state entry", key)
		}
		return nil, fmt.Errorf("redis get state: %w", err)
	}
	return data, nil
}

// Set stores value under key, refreshing the configured TTL.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
