//go:build api

package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const redisImage = "redis:7-alpine"

// RedisContainer holds the snapshot cache backing the API tests.
type RedisContainer struct {
	Container testcontainers.Container
	Client    *redis.Client
}

// SetupRedis starts Redis and returns a connected client.
func SetupRedis(ctx context.Context) (*RedisContainer, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start redis: %w", err)
	}

	rc := &RedisContainer{Container: container}

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = rc.Cleanup(ctx)
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}

	rc.Client = redis.NewClient(&redis.Options{Addr: addr})
	if err := rc.Client.Ping(ctx).Err(); err != nil {
		_ = rc.Cleanup(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rc, nil
}

// Cleanup closes the client and removes the container.
func (rc *RedisContainer) Cleanup(ctx context.Context) error {
	if rc.Client != nil {
		_ = rc.Client.Close()
	}
	if rc.Container == nil {
		return nil
	}
	return rc.Container.Terminate(ctx)
}

// FlushDB drops every cached snapshot.
func (rc *RedisContainer) FlushDB(ctx context.Context) error {
	return rc.Client.FlushDB(ctx).Err()
}
