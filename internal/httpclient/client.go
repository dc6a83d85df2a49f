// Package httpclient sends authenticated requests to the blog API and keeps
// the session's tokens fresh.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/tokenstore"
	"blog-client/pkg/auth"
	"blog-client/pkg/response"

	"golang.org/x/sync/singleflight"
)

const (
	defaultRefreshPath    = "/refresh-token"
	defaultRefreshTimeout = 10 * time.Second
	defaultMaxResponse    = 10 << 20
)

// ExpiryChecker decides whether an access token can still be sent.
type ExpiryChecker interface {
	IsExpired(token string) bool
}

// ExpiryHook is called after a failed refresh has cleared the stored tokens.
type ExpiryHook func(ctx context.Context, reason error)

// Config holds the dependencies of a Client.
type Config struct {
	BaseURL        string
	Tokens         tokenstore.Store
	HTTPClient     *http.Client
	Checker        ExpiryChecker
	RefreshPath    string
	RefreshTimeout time.Duration
	Logger         *slog.Logger

	// MaxResponseBytes caps a response body. Defaults to 10 MiB.
	MaxResponseBytes int64
}

// Client wraps outbound API calls with bearer auth and refresh-and-retry.
type Client struct {
	baseURL        string
	tokens         tokenstore.Store
	http           *http.Client
	checker        ExpiryChecker
	refreshPath    string
	refreshTimeout time.Duration
	maxResponse    int64
	logger         *slog.Logger

	refreshGroup singleflight.Group

	hooksMu sync.RWMutex
	hooks   []ExpiryHook
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpclient: base URL is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("httpclient: token store is required")
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		tokens:         cfg.Tokens,
		http:           cfg.HTTPClient,
		checker:        cfg.Checker,
		refreshPath:    cfg.RefreshPath,
		refreshTimeout: cfg.RefreshTimeout,
		maxResponse:    cfg.MaxResponseBytes,
		logger:         cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.checker == nil {
		c.checker = auth.NewExpiryChecker(nil)
	}
	if c.refreshPath == "" {
		c.refreshPath = defaultRefreshPath
	}
	if c.refreshTimeout <= 0 {
		c.refreshTimeout = defaultRefreshTimeout
	}
	if c.maxResponse <= 0 {
		c.maxResponse = defaultMaxResponse
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Tokens exposes the store the client reads credentials from.
func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

// OnSessionExpired registers a hook run when a refresh fails.
func (c *Client) OnSessionExpired(hook ExpiryHook) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Do sends req and decodes the response payload into out (which may be nil).
//
// A non-public request carries the stored access token. An expired token is
// refreshed before sending. A 401 triggers one refresh and one replay; each
// request is refreshed at most once, so a second 401 is returned as-is.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	token, refreshed, err := c.authorize(ctx, req)
	if err != nil {
		return err
	}

	for {
		status, body, err := c.send(ctx, req, token)
		if err != nil {
			return err
		}

		if status == http.StatusUnauthorized && !req.Public && !refreshed {
			c.logger.Debug("access token rejected, refreshing", "method", req.Method, "path", req.Path)
			token, err = c.Refresh(ctx, token)
			if err != nil {
				return err
			}
			refreshed = true
			continue
		}

		return decode(status, body, out)
	}
}

// authorize resolves the bearer token for req, refreshing an expired one first.
func (c *Client) authorize(ctx context.Context, req Request) (string, bool, error) {
	if req.Public {
		return "", false, nil
	}

	token, err := c.tokens.Get(ctx, tokenstore.Access)
	if err != nil {
		return "", false, fmt.Errorf("failed to read access token: %w", err)
	}
	if token == "" || !c.checker.IsExpired(token) {
		return token, false, nil
	}

	c.logger.Debug("access token expired before send, refreshing", "method", req.Method, "path", req.Path)
	token, err = c.Refresh(ctx, token)
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (c *Client) send(ctx context.Context, req Request, token string) (int, []byte, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", apperrors.ErrNetwork, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	// One byte past the limit tells a full body from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading %s %s: %w", apperrors.ErrNetwork, req.Method, req.Path, err)
	}
	if int64(len(data)) > c.maxResponse {
		return 0, nil, fmt.Errorf("%w: %s %s exceeds %d bytes", apperrors.ErrResponseTooLarge, req.Method, req.Path, c.maxResponse)
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"authenticated", token != "",
	)
	return resp.StatusCode, data, nil
}

// decode turns a status and body into either out or an error.
func decode(status int, body []byte, out interface{}) error {
	env, parseErr := response.Parse(body)

	if status < 200 || status >= 300 {
		msg := http.StatusText(status)
		if parseErr == nil && env.ErrorMessage() != "" {
			msg = env.ErrorMessage()
		}
		return &APIError{Status: status, Message: msg}
	}

	if parseErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidResponse, parseErr)
	}
	if !env.Success {
		return &APIError{Status: http.StatusBadRequest, Message: env.ErrorMessage()}
	}
	if err := env.Unwrap(out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidResponse, err)
	}
	return nil
}
