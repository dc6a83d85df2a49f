package httpclient

import (
	"context"
	"fmt"
	"net/http"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"
	"blog-client/internal/tokenstore"
)

// Refresh exchanges the stored refresh token for a new pair and returns the
// new access token. stale is the access token the caller last used.
//
// Concurrent callers share one exchange. A caller whose stale token was
// already replaced by a valid one gets that token without a new exchange,
// so a single-use refresh token is never presented twice.
//
// Any failure is terminal: both tokens are cleared, expiry hooks run, and the
// returned error wraps ErrNoSession or ErrSessionExpired.
func (c *Client) Refresh(ctx context.Context, stale string) (string, error) {
	if token, ok := c.replaced(ctx, stale); ok {
		return token, nil
	}

	ch := c.refreshGroup.DoChan("refresh", func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		// A flight that finished between the check above and this one already rotated the pair.
		if token, ok := c.replaced(rctx, stale); ok {
			return token, nil
		}
		return c.exchange(rctx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug("reused in-flight token refresh")
		}
		return res.Val.(string), nil
	}
}

// replaced reports the stored access token when it differs from stale and is
// still usable.
func (c *Client) replaced(ctx context.Context, stale string) (string, bool) {
	current, err := c.tokens.Get(ctx, tokenstore.Access)
	if err != nil || current == "" || current == stale || c.checker.IsExpired(current) {
		return "", false
	}
	return current, true
}

func (c *Client) exchange(ctx context.Context) (string, error) {
	refreshToken, err := c.tokens.Get(ctx, tokenstore.Refresh)
	if err != nil {
		return "", c.expire(ctx, fmt.Errorf("%w: %w: %v", apperrors.ErrSessionExpired, apperrors.ErrRefreshFailed, err))
	}
	if refreshToken == "" {
		return "", c.expire(ctx, apperrors.ErrNoSession)
	}

	req, err := JSON(http.MethodPost, c.refreshPath, models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", c.expire(ctx, fmt.Errorf("%w: %w", apperrors.ErrSessionExpired, err))
	}

	c.logger.Info("refreshing session tokens")

	status, body, err := c.send(ctx, req.AsPublic(), "")
	if err != nil {
		return "", c.expire(ctx, fmt.Errorf("%w: %w: %w", apperrors.ErrSessionExpired, apperrors.ErrRefreshFailed, err))
	}

	var pair models.TokenPair
	if err := decode(status, body, &pair); err != nil {
		return "", c.expire(ctx, fmt.Errorf("%w: %w: %w", apperrors.ErrSessionExpired, apperrors.ErrRefreshFailed, err))
	}
	if pair.AccessToken == "" {
		return "", c.expire(ctx, fmt.Errorf("%w: %w: %w", apperrors.ErrSessionExpired, apperrors.ErrRefreshFailed, apperrors.ErrInvalidResponse))
	}
	// Servers that do not rotate refresh tokens return only an access token.
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	if err := c.tokens.SetPair(ctx, pair); err != nil {
		return "", c.expire(ctx, fmt.Errorf("%w: %w: %v", apperrors.ErrSessionExpired, apperrors.ErrRefreshFailed, err))
	}

	c.logger.Info("session tokens refreshed")
	return pair.AccessToken, nil
}

// expire clears the session and notifies hooks. It returns reason.
// Running it more than once leaves the same empty state.
func (c *Client) expire(ctx context.Context, reason error) error {
	c.logger.Warn("session ended by failed refresh", "reason", reason)

	if err := c.tokens.ClearAll(ctx); err != nil {
		c.logger.Error("failed to clear tokens", "error", err)
	}

	c.hooksMu.RLock()
	hooks := append([]ExpiryHook(nil), c.hooks...)
	c.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, reason)
	}
	return reason
}
