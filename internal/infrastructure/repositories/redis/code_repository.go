package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const codePrefix = "mediagate:code:"

type RedisAccessCodeRepository struct {
	client *redis.Client
}

func NewRedisAccessCodeRepository(client *redis.Client) ports.AccessCodeRepository {
	return &RedisAccessCodeRepository{client: client}
}

func (r *RedisAccessCodeRepository) codeKey(code string) string {
	return codePrefix + code
}

func (r *RedisAccessCodeRepository) Create(ctx context.Context, code *domain.AccessCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal access code: %w", err)
	}

	// Codes are kept past expiry so the engine can report "gone"
	// rather than "not found"; no Redis TTL here.
	ok, err := r.client.SetNX(ctx, r.codeKey(code.Code), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set access code in Redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("access code already exists: %s", code.Code)
	}
	return nil
}

func (r *RedisAccessCodeRepository) GetByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	data, err := r.client.Get(ctx, r.codeKey(code)).Result()
	if err == redis.Nil {
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get access code from Redis: %w", err)
	}

	var accessCode domain.AccessCode
	if err := json.Unmarshal([]byte(data), &accessCode); err != nil {
		return nil, fmt.Errorf("failed to unmarshal access code: %w", err)
	}
	return &accessCode, nil
}

func (r *RedisAccessCodeRepository) Update(ctx context.Context, code *domain.AccessCode) error {
	if _, err := r.GetByCode(ctx, code.Code); err != nil {
		return err
	}

	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal access code: %w", err)
	}
	if err := r.client.Set(ctx, r.codeKey(code.Code), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update access code in Redis: %w", err)
	}
	return nil
}
