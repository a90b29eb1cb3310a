package test

import (
	"context"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const redisPort = "6379/tcp"

// StartRedisContainer starts a Redis server for the cache and pub/sub tests.
func StartRedisContainer(ctx context.Context) (testcontainers.Container, error) {
	return testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{redisPort},
				WaitingFor: wait.ForAll(
					wait.ForLog("Ready to accept connections"),
					wait.ForListeningPort(nat.Port(redisPort)),
				),
			},
			Started: true,
		})
}

// RedisURL returns the redis:// URL of the container.
func RedisURL(ctx context.Context, container testcontainers.Container) (string, error) {
	return container.Endpoint(ctx, "redis")
}
