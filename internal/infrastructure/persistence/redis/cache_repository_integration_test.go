//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/snacktrack/assessor/internal/ports/outbound"
)

func startRedis(t *testing.T) goredis.UniversalClient {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs: []string{fmt.Sprintf("%s:%s", host, port.Port())},
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCacheRepository_Redis(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)
	cache := NewCacheRepository(client, "test:", zaptest.NewLogger(t))

	_, err := cache.Get(ctx, "absent")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Minute))

	got, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	raw, err := client.Get(ctx, "test:a").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	ok, err := cache.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "short", []byte("x"), 50*time.Millisecond))
	time.Sleep(200 * time.Millisecond)
	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}
