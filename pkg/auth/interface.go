package auth

import "time"

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	// Issue signs a token for a user, returning it with its expiry.
	Issue(userID string) (string, time.Time, error)
	// Verify parses and validates a token, returning the claims if valid.
	Verify(tokenString string) (*Claims, error)
}

// Ensure Issuer implements TokenIssuer interface
var _ TokenIssuer = (*Issuer)(nil)
