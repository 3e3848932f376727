package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedis is a throwaway Redis server.
type TestRedis struct {
	Container testcontainers.Container
	Client    *redis.Client
	Addr      string
}

// NewTestRedis starts redis:7-alpine and returns a connected client. The
// container is terminated through t.Cleanup.
func NewTestRedis(t *testing.T) *TestRedis {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(ctx).Err(), "failed to ping redis")

	t.Cleanup(func() {
		_ = client.Close()
		if termErr := container.Terminate(context.Background()); termErr != nil {
			t.Logf("failed to terminate redis container: %v", termErr)
		}
	})

	return &TestRedis{Container: container, Client: client, Addr: addr}
}
