package redis

import (
	"context"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/circuitbreaker"

	"github.com/redis/go-redis/v9"
)

const generationPrefix = "mediagate:generation:"

// RedisGenerationStore backs the revocation epoch with Redis INCR, so
// a bump on one instance is immediately visible to every other one.
// Reads sit on the per-segment hot path, so they run behind a circuit
// breaker: a dead Redis fails fast into the caller's indeterminate
// handling instead of stacking up timeouts.
type RedisGenerationStore struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewRedisGenerationStore(client *redis.Client) ports.GenerationStore {
	return &RedisGenerationStore{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

func (s *RedisGenerationStore) generationKey(id domain.ResourceID) string {
	return generationPrefix + string(id)
}

func (s *RedisGenerationStore) Current(ctx context.Context, id domain.ResourceID) (int64, error) {
	result, err := s.breaker.ExecuteWithResult(ctx, func() (interface{}, error) {
		val, err := s.client.Get(ctx, s.generationKey(id)).Int64()
		if err == redis.Nil {
			return int64(0), nil
		}
		if err != nil {
			return int64(0), err
		}
		return val, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read generation: %w", err)
	}
	return result.(int64), nil
}

func (s *RedisGenerationStore) Bump(ctx context.Context, id domain.ResourceID) (int64, error) {
	result, err := s.breaker.ExecuteWithResult(ctx, func() (interface{}, error) {
		return s.client.Incr(ctx, s.generationKey(id)).Result()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bump generation: %w", err)
	}
	return result.(int64), nil
}
