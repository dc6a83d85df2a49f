package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"min cost", bcrypt.MinCost, bcrypt.MinCost},
		{"explicit cost", 6, 6},
		{"zero falls back", 0, bcrypt.DefaultCost},
		{"too high falls back", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPasswordHasher(tt.cost).Cost())
		})
	}
}

func TestPasswordHasher_Hash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	t.Run("hash verifies with bcrypt", func(t *testing.T) {
		hash, err := h.Hash("Secret1!x")

		require.NoError(t, err)
		assert.NotEqual(t, "Secret1!x", hash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("Secret1!x")))
	})

	t.Run("salts differ for same password", func(t *testing.T) {
		hash1, err1 := h.Hash("Secret1!x")
		hash2, err2 := h.Hash("Secret1!x")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects passwords over 72 bytes", func(t *testing.T) {
		_, err := h.Hash(string(make([]byte, 100)))

		assert.Error(t, err)
	})
}

func TestPasswordHasher_Check(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("MyPassword1!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{"matching password", "MyPassword1!", hash, nil},
		{"wrong password", "other", hash, bcrypt.ErrMismatchedHashAndPassword},
		{"case sensitive", "mypassword1!", hash, bcrypt.ErrMismatchedHashAndPassword},
		{"empty password", "", hash, bcrypt.ErrMismatchedHashAndPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Check(tt.password, tt.hash)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("invalid hash format", func(t *testing.T) {
		assert.Error(t, h.Check("password", "notavalidhash"))
		assert.Error(t, h.Check("password", ""))
	})
}
