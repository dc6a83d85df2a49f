package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"blog-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("empty store returns absent tokens", func(t *testing.T) {
		s := newStore(t)

		access, err := s.Get(ctx, Access)
		require.NoError(t, err)
		refresh, err := s.Get(ctx, Refresh)
		require.NoError(t, err)

		assert.Empty(t, access)
		assert.Empty(t, refresh)
	})

	t.Run("set and get single token", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.Set(ctx, Access, "a1"))

		access, _ := s.Get(ctx, Access)
		refresh, _ := s.Get(ctx, Refresh)
		assert.Equal(t, "a1", access)
		assert.Empty(t, refresh)
	})

	t.Run("set pair replaces both tokens", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a2", RefreshToken: "r2"}))

		access, _ := s.Get(ctx, Access)
		refresh, _ := s.Get(ctx, Refresh)
		assert.Equal(t, "a2", access)
		assert.Equal(t, "r2", refresh)
	})

	t.Run("set pair with empty refresh removes it", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a2"}))

		refresh, _ := s.Get(ctx, Refresh)
		assert.Empty(t, refresh)
	})

	t.Run("clear removes one kind", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

		require.NoError(t, s.Clear(ctx, Access))

		access, _ := s.Get(ctx, Access)
		refresh, _ := s.Get(ctx, Refresh)
		assert.Empty(t, access)
		assert.Equal(t, "r1", refresh)
	})

	t.Run("clear all is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetPair(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

		require.NoError(t, s.ClearAll(ctx))
		require.NoError(t, s.ClearAll(ctx))

		access, _ := s.Get(ctx, Access)
		refresh, _ := s.Get(ctx, Refresh)
		assert.Empty(t, access)
		assert.Empty(t, refresh)
	})

	t.Run("concurrent pair writes never tear", func(t *testing.T) {
		s := newStore(t)
		pairs := []models.TokenPair{
			{AccessToken: "a1", RefreshToken: "r1"},
			{AccessToken: "a2", RefreshToken: "r2"},
		}

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(p models.TokenPair) {
				defer wg.Done()
				_ = s.SetPair(ctx, p)
			}(pairs[i%2])
		}
		wg.Wait()

		access, _ := s.Get(ctx, Access)
		refresh, _ := s.Get(ctx, Refresh)
		assert.Equal(t, access[1:], refresh[1:], "access and refresh must come from the same pair")
	})
}

func TestMemory(t *testing.T) {
	storeContract(t, func(t *testing.T) Store { return NewMemory() })
}

func TestFile(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return NewFile(filepath.Join(t.TempDir(), "nested", "session.json"))
	})
}

func TestFile_Durability(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	t.Run("tokens survive a new store instance", func(t *testing.T) {
		require.NoError(t, NewFile(path).SetPair(ctx, models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

		reopened := NewFile(path)
		access, err := reopened.Get(ctx, Access)

		require.NoError(t, err)
		assert.Equal(t, "a1", access)
	})

	t.Run("file is private to the owner", func(t *testing.T) {
		info, err := os.Stat(path)

		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("clear all removes the file", func(t *testing.T) {
		require.NoError(t, NewFile(path).ClearAll(ctx))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt file surfaces an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))

		_, err := NewFile(path).Get(ctx, Access)

		assert.Error(t, err)
	})
}

func TestSessionKey(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		kind      Kind
		expected  string
	}{
		{"access", "default", Access, "session:default:accessToken"},
		{"refresh", "ann", Refresh, "session:ann:refreshToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SessionKey(tt.namespace, tt.kind))
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: BackendMemory})

		require.NoError(t, err)
		assert.IsType(t, &Memory{}, s)
	})

	t.Run("file backend", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: BackendFile, FilePath: filepath.Join(t.TempDir(), "s.json")})

		require.NoError(t, err)
		assert.IsType(t, &File{}, s)
	})

	t.Run("file backend requires a path", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: BackendFile})

		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "etcd"})

		assert.Error(t, err)
	})
}
