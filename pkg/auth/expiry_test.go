package auth

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawToken assembles an unsigned token around an arbitrary payload.
func rawToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("secret", time.Hour, fixedClock(now))
	valid, _, err := issuer.Issue("u1")
	require.NoError(t, err)

	past := NewIssuer("secret", time.Hour, fixedClock(now.Add(-2*time.Hour)))
	expired, _, err := past.Issue("u1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{"valid token", valid, false},
		{"expired token", expired, true},
		{"empty string", "", true},
		{"single segment", "abc", true},
		{"two segments", "abc.def", true},
		{"payload not base64", "eyJhbGciOiJIUzI1NiJ9.!!!.sig", true},
		{"payload not json", rawToken("not json"), true},
		{"missing exp claim", rawToken(`{"userId":"u1"}`), true},
		{"exp as string", rawToken(`{"exp":"tomorrow"}`), true},
		{"exp far in future", rawToken(`{"exp":4102444800}`), false},
		{"exp in past", rawToken(`{"exp":946684800}`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExpired(tt.token, now))
		})
	}
}

func TestIsExpired_Boundary(t *testing.T) {
	exp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	token := rawToken(`{"exp":` + strconv.FormatInt(exp.Unix(), 10) + `}`)

	t.Run("one second before expiry is valid", func(t *testing.T) {
		assert.False(t, IsExpired(token, exp.Add(-time.Second)))
	})

	t.Run("exactly at expiry is expired", func(t *testing.T) {
		assert.True(t, IsExpired(token, exp))
	})

	t.Run("after expiry is expired", func(t *testing.T) {
		assert.True(t, IsExpired(token, exp.Add(time.Millisecond)))
	})
}

func TestExpiresAt(t *testing.T) {
	t.Run("returns ErrNoExpiry when claim is absent", func(t *testing.T) {
		_, err := ExpiresAt(rawToken(`{"sub":"u1"}`))

		assert.ErrorIs(t, err, ErrNoExpiry)
	})

	t.Run("decodes expiry", func(t *testing.T) {
		exp, err := ExpiresAt(rawToken(`{"exp":946684800}`))

		require.NoError(t, err)
		assert.Equal(t, int64(946684800), exp.Unix())
	})
}

func TestExpiryChecker(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	checker := NewExpiryChecker(func() time.Time { return current })
	token := rawToken(`{"exp":` + strconv.FormatInt(current.Add(time.Minute).Unix(), 10) + `}`)

	assert.False(t, checker.IsExpired(token))

	current = current.Add(time.Minute)

	assert.True(t, checker.IsExpired(token))
}
