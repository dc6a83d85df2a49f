package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blog-client/internal/models"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared by every client pointed at the same namespace,
// e.g. several CLI processes acting for one account.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis connects to Redis at uri (host:port or a redis:// URL) and pings it.
func NewRedis(ctx context.Context, uri, namespace string) (*Redis, error) {
	if !strings.Contains(uri, "://") {
		uri = "redis://" + uri
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("connected to redis token store", "addr", opt.Addr, "namespace", namespace)

	return NewRedisFromClient(client, namespace), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = "default"
	}
	return &Redis{client: client, namespace: namespace}
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Key returns the Redis key holding a token of the given kind.
func (r *Redis) Key(kind Kind) string {
	return SessionKey(r.namespace, kind)
}

// SessionKey generates the key for a token kind within a namespace.
func SessionKey(namespace string, kind Kind) string {
	return fmt.Sprintf("session:%s:%s", namespace, kind)
}

func (r *Redis) Get(ctx context.Context, kind Kind) (string, error) {
	token, err := r.client.Get(ctx, r.Key(kind)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return token, nil
}

func (r *Redis) Set(ctx context.Context, kind Kind, token string) error {
	if token == "" {
		return r.Clear(ctx, kind)
	}
	return r.client.Set(ctx, r.Key(kind), token, 0).Err()
}

// SetPair writes both keys in a MULTI/EXEC transaction.
func (r *Redis) SetPair(ctx context.Context, pair models.TokenPair) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.stage(ctx, pipe, Access, pair.AccessToken)
		r.stage(ctx, pipe, Refresh, pair.RefreshToken)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token pair: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, kind Kind) error {
	return r.client.Del(ctx, r.Key(kind)).Err()
}

func (r *Redis) ClearAll(ctx context.Context) error {
	return r.client.Del(ctx, r.Key(Access), r.Key(Refresh)).Err()
}

func (r *Redis) stage(ctx context.Context, pipe redis.Pipeliner, kind Kind, token string) {
	if token == "" {
		pipe.Del(ctx, r.Key(kind))
		return
	}
	pipe.Set(ctx, r.Key(kind), token, 0)
}
