package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	groupPrefix      = "mediagate:group:"
	membershipPrefix = "mediagate:group:members:"
)

type RedisGroupRepository struct {
	client *redis.Client
}

func NewRedisGroupRepository(client *redis.Client) ports.GroupRepository {
	return &RedisGroupRepository{client: client}
}

func (r *RedisGroupRepository) groupKey(id domain.GroupID) string {
	return groupPrefix + string(id)
}

func (r *RedisGroupRepository) membersKey(id domain.GroupID) string {
	return membershipPrefix + string(id)
}

func (r *RedisGroupRepository) Create(ctx context.Context, group *domain.AccessGroup) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.groupKey(group.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set group in Redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("group already exists: %s", group.ID)
	}
	return nil
}

func (r *RedisGroupRepository) GetByID(ctx context.Context, id domain.GroupID) (*domain.AccessGroup, error) {
	data, err := r.client.Get(ctx, r.groupKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group from Redis: %w", err)
	}

	var group domain.AccessGroup
	if err := json.Unmarshal([]byte(data), &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return &group, nil
}

func (r *RedisGroupRepository) UpsertMembership(ctx context.Context, membership *domain.GroupMembership) error {
	if _, err := r.GetByID(ctx, membership.GroupID); err != nil {
		return err
	}

	data, err := json.Marshal(membership)
	if err != nil {
		return fmt.Errorf("failed to marshal membership: %w", err)
	}
	// One hash field per user: at most one role per (group, user).
	if err := r.client.HSet(ctx, r.membersKey(membership.GroupID), string(membership.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to set membership in Redis: %w", err)
	}
	return nil
}

func (r *RedisGroupRepository) RemoveMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) error {
	removed, err := r.client.HDel(ctx, r.membersKey(groupID), string(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove membership from Redis: %w", err)
	}
	if removed == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *RedisGroupRepository) GetMembership(ctx context.Context, groupID domain.GroupID, userID domain.UserID) (*domain.GroupMembership, error) {
	data, err := r.client.HGet(ctx, r.membersKey(groupID), string(userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership from Redis: %w", err)
	}

	var membership domain.GroupMembership
	if err := json.Unmarshal([]byte(data), &membership); err != nil {
		return nil, fmt.Errorf("failed to unmarshal membership: %w", err)
	}
	return &membership, nil
}

func (r *RedisGroupRepository) ListMemberships(ctx context.Context, groupID domain.GroupID) ([]*domain.GroupMembership, error) {
	entries, err := r.client.HGetAll(ctx, r.membersKey(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships from Redis: %w", err)
	}

	var memberships []*domain.GroupMembership
	for _, data := range entries {
		var membership domain.GroupMembership
		if err := json.Unmarshal([]byte(data), &membership); err != nil {
			return nil, fmt.Errorf("failed to unmarshal membership: %w", err)
		}
		memberships = append(memberships, &membership)
	}
	return memberships, nil
}
