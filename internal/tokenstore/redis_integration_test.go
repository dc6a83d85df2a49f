//go:build integration

package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// setupRedis starts a Redis testcontainer and returns a connected client.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedis(t *testing.T) {
	client := setupRedis(t)
	n := 0

	storeContract(t, func(t *testing.T) Store {
		n++
		return NewRedisFromClient(client, t.Name()+string(rune('a'+n)))
	})
}

func TestRedis_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)
	ann := NewRedisFromClient(client, "ann")
	bob := NewRedisFromClient(client, "bob")

	require.NoError(t, ann.Set(ctx, Access, "ann-token"))

	token, err := bob.Get(ctx, Access)
	require.NoError(t, err)
	require.Empty(t, token)
}
