package repositories

import (
	"context"

	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/repositories/memory"
	redisrepo "mediagate/internal/infrastructure/repositories/redis"
	"mediagate/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

func (f *RepositoryFactory) CreateResourceRepository() ports.ResourceRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisResourceRepository(f.redisClient)
	}
	return memory.NewMemoryResourceRepository()
}

func (f *RepositoryFactory) CreateGroupRepository() ports.GroupRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisGroupRepository(f.redisClient)
	}
	return memory.NewMemoryGroupRepository()
}

func (f *RepositoryFactory) CreateAccessCodeRepository() ports.AccessCodeRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisAccessCodeRepository(f.redisClient)
	}
	return memory.NewMemoryAccessCodeRepository()
}

// CreateGenerationStore creates the revocation epoch store. With Redis
// enabled the epoch is shared across instances; otherwise it is
// process-local, which is only sound for a single-instance deployment.
func (f *RepositoryFactory) CreateGenerationStore() ports.GenerationStore {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisGenerationStore(f.redisClient)
	}
	return memory.NewMemoryGenerationStore()
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks Redis connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
