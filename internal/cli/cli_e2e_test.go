package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog-client/internal/config"
	"blog-client/internal/mockapi"
	"blog-client/internal/models"
	"blog-client/internal/tokenstore"
	"blog-client/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// harness runs CLI invocations against one fake API. The token store is
// shared between runs the way the session file is between processes.
type harness struct {
	t      *testing.T
	url    string
	server *mockapi.Server
	tokens *tokenstore.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := mockapi.New(mockapi.Config{
		Issuer:       auth.NewIssuer("cli-secret", 15*time.Minute, nil),
		PasswordCost: bcrypt.MinCost,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &harness{
		t:      t,
		url:    ts.URL + mockapi.DefaultBasePath,
		server: srv,
		tokens: tokenstore.NewMemory(),
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	opts := &RootOptions{NewApp: func(ctx context.Context, o *RootOptions, cmd *cobra.Command) (*App, error) {
		cfg := &config.Config{
			APIURL:         h.url,
			RefreshTimeout: 5 * time.Second,
			FeedPageSize:   2,
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return NewAppWithTokens(cfg, h.tokens, nil, logger, cmd.ErrOrStderr())
	}}

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), opts, args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) signup(email, phone string) result {
	h.t.Helper()
	return h.run("signup",
		"--first-name", "Ann", "--last-name", "Lee",
		"--email", email, "--phone", phone, "--dob", "1990-04-12",
		"--password", "S3cret!pass", "--preferences", "technology,space",
	)
}

func (h *harness) publish(title string) models.Article {
	h.t.Helper()
	res := h.run("publish", "--format", "json",
		"--title", title,
		"--description", "A long enough description",
		"--category", "technology",
		"--tags", "go,cli",
	)
	require.Equal(h.t, ExitSuccess, res.code, res.stderr)

	var out struct {
		Data models.Article `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(res.stdout), &out))
	return out.Data
}

func TestCLI_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	res := h.run("whoami")
	assert.Equal(t, ExitNoSession, res.code)
	assert.Contains(t, res.stderr, "not signed in")

	res = h.signup("ann@example.com", "5551234567")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Ann Lee <ann@example.com>")

	res = h.run("whoami")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ann@example.com")

	res = h.run("logout")
	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Signed out")
	access, _ := h.tokens.Get(context.Background(), tokenstore.Access)
	assert.Empty(t, access)

	res = h.run("login", "-i", "5551234567", "-p", "S3cret!pass")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Ann Lee")
}

func TestCLI_LoginFailures(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.signup("ann@example.com", "5551234567").code)
	h.run("logout")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"wrong password", []string{"login", "-i", "ann@example.com", "-p", "nope"}, ExitFailure},
		{"malformed identifier", []string{"login", "-i", "not-an-email", "-p", "x"}, ExitCommandError},
		{"missing identifier", []string{"login", "-p", "x"}, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.run(tt.args...)
			assert.Equal(t, tt.code, res.code, res.stderr)
		})
	}
}

func TestCLI_FeedAndReactions(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.signup("ann@example.com", "5551234567").code)

	first := h.publish("First post")
	second := h.publish("Second post")
	third := h.publish("Third post")

	t.Run("feed pages", func(t *testing.T) {
		res := h.run("feed")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, third.ID)
		assert.Contains(t, res.stdout, second.ID)
		assert.NotContains(t, res.stdout, first.ID)

		res = h.run("feed", "--pages", "2")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, first.ID)
	})

	t.Run("feed search", func(t *testing.T) {
		res := h.run("feed", "--search", "second", "--format", "json")
		require.Equal(t, ExitSuccess, res.code, res.stderr)

		var out struct {
			Data []models.Article `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		require.Len(t, out.Data, 1)
		assert.Equal(t, second.ID, out.Data[0].ID)
	})

	t.Run("like toggles", func(t *testing.T) {
		res := h.run("like", first.ID)
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "+1 -0  (liked)")

		res = h.run("dislike", first.ID)
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "+0 -1  (disliked)")
	})

	t.Run("block hides the article", func(t *testing.T) {
		res := h.run("block", second.ID)
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "blocked")
		assert.Contains(t, res.stderr, "[success] Article blocked")

		res = h.run("feed", "--pages", "3")
		require.Equal(t, ExitSuccess, res.code)
		assert.NotContains(t, res.stdout, second.ID)
	})

	t.Run("delete", func(t *testing.T) {
		res := h.run("delete", third.ID)
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stderr, "[success] Article deleted successfully")

		res = h.run("show", third.ID)
		assert.Equal(t, ExitFailure, res.code)
	})

	t.Run("unknown article notifies", func(t *testing.T) {
		res := h.run("like", "missing")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "[error] Failed to like article")
	})
}

func TestCLI_ProfileUpdate(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.signup("ann@example.com", "5551234567").code)

	res := h.run("profile", "--first-name", "Annie", "--preferences", "space,science")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Annie Lee")
	assert.Contains(t, res.stdout, "space, science")

	res = h.run("profile", "--email", "bad")
	assert.Equal(t, ExitCommandError, res.code)
}

func TestCLI_ExpiredAccessTokenIsRenewed(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.signup("ann@example.com", "5551234567").code)
	ctx := context.Background()
	oldRefresh, _ := h.tokens.Get(ctx, tokenstore.Refresh)

	// The checker treats an undecodable token as expired.
	require.NoError(t, h.tokens.Set(ctx, tokenstore.Access, "garbage"))

	res := h.run("whoami")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ann@example.com")
	assert.Equal(t, 1, h.server.Auth().RefreshCount())
	access, _ := h.tokens.Get(ctx, tokenstore.Access)
	refresh, _ := h.tokens.Get(ctx, tokenstore.Refresh)
	assert.NotEqual(t, "garbage", access)
	assert.NotEqual(t, oldRefresh, refresh)
}

func TestCLI_RejectedRefreshEndsSession(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, ExitSuccess, h.signup("ann@example.com", "5551234567").code)

	// A token the server cannot verify forces a refresh, which then fails.
	require.NoError(t, h.tokens.Set(context.Background(), tokenstore.Access, "garbage"))
	h.server.Auth().FailRefresh(true)

	res := h.run("whoami")

	assert.Equal(t, ExitNoSession, res.code)
	assert.True(t, strings.Contains(res.stderr, "blog login"))
	refresh, _ := h.tokens.Get(context.Background(), tokenstore.Refresh)
	assert.Empty(t, refresh)
}
