package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"blog-client/internal/api"
	"blog-client/internal/config"
	"blog-client/internal/feed"
	"blog-client/internal/httpclient"
	"blog-client/internal/queue"
	"blog-client/internal/reaction"
	"blog-client/internal/session"
	"blog-client/internal/tokenstore"
	"blog-client/pkg/auth"
)

const noticeCapacity = 32

// App is the client stack a command runs against.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Tokens    tokenstore.Store
	Client    *httpclient.Client
	API       *api.Service
	Session   *session.Controller
	Feed      *feed.Loader
	Reactions *reaction.Reconciler
	Notices   *queue.MemoryQueue

	checker    *auth.ExpiryChecker
	dispatcher *queue.Dispatcher
}

// NewApp wires the client stack from cfg. Notices and the login prompt are
// written to errOut.
func NewApp(ctx context.Context, cfg *config.Config, errOut io.Writer) (*App, error) {
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	tokens, err := tokenstore.Open(ctx, tokenstore.Options{
		Backend:   tokenstore.Backend(cfg.TokenStore),
		FilePath:  cfg.TokenFile,
		RedisURI:  cfg.RedisURI,
		Namespace: cfg.RedisNamespace,
	})
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return NewAppWithTokens(cfg, tokens, &http.Client{Timeout: cfg.HTTPTimeout}, logger, errOut)
}

// NewAppWithTokens wires the client stack around an existing token store and
// HTTP client.
func NewAppWithTokens(cfg *config.Config, tokens tokenstore.Store, hc *http.Client, logger *slog.Logger, errOut io.Writer) (*App, error) {
	errOut = &syncWriter{w: errOut}
	checker := auth.NewExpiryChecker(nil)

	client, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.APIURL,
		Tokens:         tokens,
		HTTPClient:     hc,
		Checker:        checker,
		RefreshTimeout: cfg.RefreshTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	service := api.NewService(client)
	nav := session.NavigatorFunc(func() {
		fmt.Fprintln(errOut, "Please sign in with `blog login`.")
	})
	ctrl := session.NewController(session.Config{
		API:       service,
		Tokens:    tokens,
		Checker:   checker,
		Navigator: nav,
		Logger:    logger,
	})
	client.OnSessionExpired(ctrl.Expire)

	loader := feed.NewLoader(feed.Config{
		Lister:    service,
		Viewer:    ctrl,
		PageSize:  cfg.FeedPageSize,
		Threshold: float64(cfg.ScrollThreshold),
		Logger:    logger,
	})

	notices := queue.NewMemoryQueue(noticeCapacity)
	reconciler := reaction.NewReconciler(reaction.Config{
		API:       service,
		Feed:      loader,
		Viewer:    ctrl,
		Navigator: nav,
		Notices:   notices,
		Logger:    logger,
	})

	return &App{
		Config:     cfg,
		Logger:     logger,
		Tokens:     tokens,
		Client:     client,
		API:        service,
		Session:    ctrl,
		Feed:       loader,
		Reactions:  reconciler,
		Notices:    notices,
		checker:    checker,
		dispatcher: queue.NewDispatcher(notices, &writerSink{w: errOut}, 1, logger),
	}, nil
}

// Start begins delivering notices.
func (a *App) Start(ctx context.Context) {
	a.dispatcher.Start(ctx)
}

// Close flushes pending notices and releases the token store.
func (a *App) Close() error {
	a.dispatcher.Stop()
	if c, ok := a.Tokens.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RequireSession restores the stored session and fails when nobody is signed in.
func (a *App) RequireSession(ctx context.Context) error {
	if a.Session.State() == session.Authenticated {
		return nil
	}
	a.renew(ctx)
	if a.Session.Init(ctx) != session.Authenticated {
		return NewExitError(ExitNoSession, "not signed in")
	}
	return nil
}

// renew trades an expired stored access token for a new pair before the
// session is restored. A failed exchange runs the usual expiry cascade.
func (a *App) renew(ctx context.Context) {
	access, err := a.Tokens.Get(ctx, tokenstore.Access)
	if err != nil || access == "" || !a.checker.IsExpired(access) {
		return
	}
	refresh, err := a.Tokens.Get(ctx, tokenstore.Refresh)
	if err != nil || refresh == "" {
		return
	}
	if _, err := a.Client.Refresh(ctx, access); err != nil {
		a.Logger.Debug("stored session could not be renewed", "error", err)
		return
	}
	a.Logger.Debug("renewed stored session")
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Show(_ context.Context, n queue.Notice) error {
	_, err := fmt.Fprintln(s.w, n.String())
	return err
}

// syncWriter serializes writes from the command and the notice workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
