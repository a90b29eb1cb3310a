package test

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mongoImage   = "mongo:7.0"
	mongoPort    = "27017/tcp"
	mongoReplSet = "rs0"
)

// StartMongoContainer starts a single node MongoDB replica set, which is
// required to run multi document transactions, and waits until the node is
// the writable primary.
func StartMongoContainer(ctx context.Context) (testcontainers.Container, error) {
	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        mongoImage,
				Cmd:          []string{"--replSet", mongoReplSet, "--bind_ip_all"},
				ExposedPorts: []string{mongoPort},
				WaitingFor: wait.ForAll(
					wait.ForLog("Waiting for connections"),
					wait.ForListeningPort(nat.Port(mongoPort)),
				),
			},
			Started: true,
		})
	if err != nil {
		return nil, err
	}
	initiate := fmt.Sprintf("rs.initiate({_id:'%s',members:[{_id:0,host:'localhost:27017'}]})", mongoReplSet)
	if _, _, err := container.Exec(ctx, []string{"mongosh", "--quiet", "--eval", initiate}); err != nil {
		return nil, fmt.Errorf("failed to initiate replica set: %w", err)
	}
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		_, out, err := container.Exec(ctx, []string{"mongosh", "--quiet", "--eval", "db.hello().isWritablePrimary"})
		if err == nil {
			b, _ := io.ReadAll(out)
			if strings.Contains(string(b), "true") {
				return container, nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("mongo replica set did not elect a primary")
}

// MongoURI returns the connection string of the container. The client
// connects directly since the replica set member advertises a host only
// reachable from inside the container.
func MongoURI(ctx context.Context, container testcontainers.Container) (string, error) {
	endpoint, err := container.Endpoint(ctx, "mongodb")
	if err != nil {
		return "", err
	}
	return endpoint + "/?directConnection=true", nil
}

// RandomDatabaseName returns a random database name so parallel test
// packages sharing a server do not collide.
func RandomDatabaseName() string {
	return fmt.Sprintf("db-%d", rand.Intn(1000000))
}
