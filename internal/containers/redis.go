package containers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/vlatan/reels-mixer/internal/config"
)

// Image the visitor store and the cache run against
const redisImage = "redis:8.0.3"

type redisContainer struct {
	container *tcredis.RedisContainer
}

// Terminate stops and removes the container
func (rc *redisContainer) Terminate(ctx context.Context) {
	terminate(ctx, rc.container)
}

// SetupTestRedis starts a Redis container and
// points the Redis host and port of cfg at it
func SetupTestRedis(ctx context.Context, cfg *config.Config) (Container, error) {

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	// Don't leave a running container behind on failure
	abort := func(msg string, err error) (Container, error) {
		if cErr := container.Terminate(ctx); cErr != nil {
			err = errors.Join(err, cErr)
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return abort("failed to get container host", err)
	}

	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return abort("failed to get container port", err)
	}

	cfg.RedisHost = host
	cfg.RedisPort = port.Int()

	return &redisContainer{container}, nil
}

func terminate(ctx context.Context, c testcontainers.Container) {
	if err := c.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}
}
