// Package tokenstore persists the access/refresh token pair of a client session.
package tokenstore

import (
	"context"

	"blog-client/internal/models"
)

// Kind names one of the two stored tokens.
type Kind string

const (
	// Access is the short-lived bearer credential.
	Access Kind = "accessToken"
	// Refresh is the long-lived credential exchanged for a new pair.
	Refresh Kind = "refreshToken"
)

// Store holds the session tokens. Get returns "" when a token is absent.
// Implementations perform no validation and must be safe for concurrent use.
type Store interface {
	// Get returns the stored token of the given kind, or "" if absent.
	Get(ctx context.Context, kind Kind) (string, error)
	// Set stores a single token.
	Set(ctx context.Context, kind Kind, token string) error
	// SetPair replaces both tokens in one write.
	SetPair(ctx context.Context, pair models.TokenPair) error
	// Clear removes a single token.
	Clear(ctx context.Context, kind Kind) error
	// ClearAll removes both tokens. Clearing an empty store is not an error.
	ClearAll(ctx context.Context) error
}

// Ensure implementations satisfy Store
var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*Redis)(nil)
)
