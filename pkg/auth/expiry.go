package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when a token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiration claim")

// ExpiresAt decodes the exp claim of a token without verifying its signature.
// The client cannot verify signatures; it only needs to know when to refresh.
func ExpiresAt(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether token is expired at now.
// Malformed tokens and tokens without exp count as expired.
func IsExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

// ExpiryChecker binds IsExpired to a clock.
type ExpiryChecker struct {
	now func() time.Time
}

// NewExpiryChecker creates a checker. A nil clock defaults to time.Now.
func NewExpiryChecker(now func() time.Time) *ExpiryChecker {
	if now == nil {
		now = time.Now
	}
	return &ExpiryChecker{now: now}
}

// IsExpired reports whether token is expired at the checker's current time.
func (c *ExpiryChecker) IsExpired(token string) bool {
	return IsExpired(token, c.now())
}
