package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrFamilyNotFound is returned when a refresh-token family is unknown or expired.
	ErrFamilyNotFound = errors.New("refresh token family not found")
	// ErrStaleRotation is returned when a family was rotated by someone else first.
	ErrStaleRotation = errors.New("refresh token family already rotated")
)

// RefreshTokenData is the state of one refresh-token family.
type RefreshTokenData struct {
	UserID            string    `json:"user_id"`
	CurrentTokenHash  string    `json:"current_token_hash"`
	PreviousTokenHash string    `json:"previous_token_hash,omitempty"`
	Rotations         int       `json:"rotations"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// RefreshTokenStore manages refresh-token families.
type RefreshTokenStore interface {
	// Create stores a new family.
	Create(ctx context.Context, familyID string, data *RefreshTokenData, ttl time.Duration) error
	// Get returns the family, or nil when it does not exist.
	Get(ctx context.Context, familyID string) (*RefreshTokenData, error)
	// Rotate replaces currentHash with newHash, keeping currentHash as the previous one.
	// It fails with ErrStaleRotation when currentHash is no longer current.
	Rotate(ctx context.Context, familyID, currentHash, newHash string, ttl time.Duration) error
	// Delete revokes a family.
	Delete(ctx context.Context, familyID string) error
}

// RedisClientProvider provides access to the underlying Redis client.
type RedisClientProvider interface {
	Client() *redis.Client
}

type refreshTokenStore struct {
	cache  Cache
	client *redis.Client

	// serializes the non-scripted rotation path
	mu sync.Mutex
}

// NewRefreshTokenStore creates a RefreshTokenStore on top of cache.
// When cache exposes a Redis client, rotation runs as a Lua script.
func NewRefreshTokenStore(cache Cache) RefreshTokenStore {
	store := &refreshTokenStore{cache: cache}
	if provider, ok := cache.(RedisClientProvider); ok {
		store.client = provider.Client()
	}
	return store
}

// RefreshFamilyKey is the cache key of a family.
func RefreshFamilyKey(familyID string) string {
	return fmt.Sprintf("blog:refresh_family:%s", familyID)
}

func (s *refreshTokenStore) Create(ctx context.Context, familyID string, data *RefreshTokenData, ttl time.Duration) error {
	return s.cache.Set(ctx, RefreshFamilyKey(familyID), data, ttl)
}

func (s *refreshTokenStore) Get(ctx context.Context, familyID string) (*RefreshTokenData, error) {
	var data RefreshTokenData
	found, err := s.cache.Get(ctx, RefreshFamilyKey(familyID), &data)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &data, nil
}

// rotateScript compares the current hash and rotates in one step.
var rotateScript = redis.NewScript(`
local data = redis.call('GET', KEYS[1])
if not data then
    return redis.error_reply("family_not_found")
end

local decoded = cjson.decode(data)
if decoded.current_token_hash ~= ARGV[1] then
    return redis.error_reply("stale_rotation")
end

decoded.previous_token_hash = decoded.current_token_hash
decoded.current_token_hash = ARGV[2]
decoded.rotations = (decoded.rotations or 0) + 1

redis.call('SET', KEYS[1], cjson.encode(decoded), 'EX', tonumber(ARGV[3]))
return "OK"
`)

func (s *refreshTokenStore) Rotate(ctx context.Context, familyID, currentHash, newHash string, ttl time.Duration) error {
	if s.client == nil {
		return s.rotateLocked(ctx, familyID, currentHash, newHash, ttl)
	}

	key := RefreshFamilyKey(familyID)
	err := rotateScript.Run(ctx, s.client, []string{key}, currentHash, newHash, int(ttl.Seconds())).Err()
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "family_not_found"):
		return ErrFamilyNotFound
	case strings.Contains(err.Error(), "stale_rotation"):
		return ErrStaleRotation
	default:
		return fmt.Errorf("rotate script failed: %w", err)
	}
}

func (s *refreshTokenStore) rotateLocked(ctx context.Context, familyID, currentHash, newHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Get(ctx, familyID)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrFamilyNotFound
	}
	if data.CurrentTokenHash != currentHash {
		return ErrStaleRotation
	}

	data.PreviousTokenHash = data.CurrentTokenHash
	data.CurrentTokenHash = newHash
	data.Rotations++

	return s.cache.Set(ctx, RefreshFamilyKey(familyID), data, ttl)
}

func (s *refreshTokenStore) Delete(ctx context.Context, familyID string) error {
	return s.cache.Delete(ctx, RefreshFamilyKey(familyID))
}
