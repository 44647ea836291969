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
	resourcePrefix   = "mediagate:resource:"
	groupIndexPrefix = "mediagate:resource:group:"
	ownerIndexPrefix = "mediagate:resource:owner:"
)

type RedisResourceRepository struct {
	client *redis.Client
}

func NewRedisResourceRepository(client *redis.Client) ports.ResourceRepository {
	return &RedisResourceRepository{client: client}
}

func (r *RedisResourceRepository) resourceKey(id domain.ResourceID) string {
	return resourcePrefix + string(id)
}

func (r *RedisResourceRepository) groupIndexKey(id domain.GroupID) string {
	return groupIndexPrefix + string(id)
}

func (r *RedisResourceRepository) ownerIndexKey(id domain.UserID) string {
	return ownerIndexPrefix + string(id)
}

func (r *RedisResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	if err := r.client.Set(ctx, r.resourceKey(resource.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set resource in Redis: %w", err)
	}

	if resource.GroupID != "" {
		if err := r.client.SAdd(ctx, r.groupIndexKey(resource.GroupID), string(resource.ID)).Err(); err != nil {
			return fmt.Errorf("failed to index resource by group: %w", err)
		}
	}
	if err := r.client.SAdd(ctx, r.ownerIndexKey(resource.OwnerID), string(resource.ID)).Err(); err != nil {
		return fmt.Errorf("failed to index resource by owner: %w", err)
	}

	return nil
}

func (r *RedisResourceRepository) GetByID(ctx context.Context, id domain.ResourceID) (*domain.Resource, error) {
	data, err := r.client.Get(ctx, r.resourceKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource from Redis: %w", err)
	}

	var resource domain.Resource
	if err := json.Unmarshal([]byte(data), &resource); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
	}

	return &resource, nil
}

func (r *RedisResourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	previous, err := r.GetByID(ctx, resource.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	if err := r.client.Set(ctx, r.resourceKey(resource.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update resource in Redis: %w", err)
	}

	// Keep the group index in step with reassignments.
	if previous.GroupID != resource.GroupID {
		if previous.GroupID != "" {
			if err := r.client.SRem(ctx, r.groupIndexKey(previous.GroupID), string(resource.ID)).Err(); err != nil {
				return fmt.Errorf("failed to unindex resource from group: %w", err)
			}
		}
		if resource.GroupID != "" {
			if err := r.client.SAdd(ctx, r.groupIndexKey(resource.GroupID), string(resource.ID)).Err(); err != nil {
				return fmt.Errorf("failed to index resource by group: %w", err)
			}
		}
	}

	return nil
}

func (r *RedisResourceRepository) ListByGroup(ctx context.Context, groupID domain.GroupID) ([]*domain.Resource, error) {
	ids, err := r.client.SMembers(ctx, r.groupIndexKey(groupID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list group index: %w", err)
	}
	return r.getMany(ctx, ids)
}

func (r *RedisResourceRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Resource, error) {
	ids, err := r.client.SMembers(ctx, r.ownerIndexKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list owner index: %w", err)
	}
	return r.getMany(ctx, ids)
}

func (r *RedisResourceRepository) getMany(ctx context.Context, ids []string) ([]*domain.Resource, error) {
	var resources []*domain.Resource
	for _, id := range ids {
		resource, err := r.GetByID(ctx, domain.ResourceID(id))
		if err == domain.ErrResourceNotFound {
			// Stale index entry; skip.
			continue
		}
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, nil
}
