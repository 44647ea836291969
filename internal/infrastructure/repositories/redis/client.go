package redis

import (
	"context"
	"fmt"
	"time"

	"mediagate/pkg/distributed"
	"mediagate/pkg/retry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a new Redis client with connection pooling.
// The initial ping is retried with backoff; per-operation retry policy
// stays here in the storage layer, never inside the decision engine.
func NewRedisClient(address, password string, db, poolSize int, logger *zap.SugaredLogger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		PoolSize:     poolSize,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := retry.Retry(ctx, retry.DefaultConfig(), func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx).Err()
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// Migrations run under a distributed lock so concurrently starting
	// instances do not race on the schema version.
	lock := distributed.NewDistributedLock(client, "mediagate:migrations:lock", 30*time.Second)
	if err := lock.LockWithTimeout(ctx, 10*time.Second); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	migrateErr := Migrate(ctx, client, logger)
	if err := lock.Unlock(ctx); err != nil && logger != nil {
		logger.Warnw("failed to release migration lock", "error", err)
	}
	if migrateErr != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", migrateErr)
	}

	if logger != nil {
		logger.Infow("connected to Redis",
			"address", address,
			"db", db,
			"pool_size", poolSize,
		)
	}

	return client, nil
}

// CloseRedisClient closes the Redis client connection
func CloseRedisClient(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
