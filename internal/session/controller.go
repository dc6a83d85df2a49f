// Package session owns the signed-in user and the transitions between
// signed-in and anonymous.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"blog-client/internal/api"
	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"
	"blog-client/internal/tokenstore"
	"blog-client/internal/validator"
	"blog-client/pkg/auth"
)

// AuthAPI is the subset of the API the controller calls.
type AuthAPI interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest, image *api.Image) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error)
}

// ExpiryChecker decides whether a stored access token is still usable.
type ExpiryChecker interface {
	IsExpired(token string) bool
}

// Listener is notified after every state transition.
type Listener func(state State, user *models.User)

// Config holds the dependencies of a Controller.
type Config struct {
	API       AuthAPI
	Tokens    tokenstore.Store
	Checker   ExpiryChecker
	Navigator Navigator
	Logger    *slog.Logger
}

// Controller is the single owner of the current session.
type Controller struct {
	api       AuthAPI
	tokens    tokenstore.Store
	checker   ExpiryChecker
	navigator Navigator
	logger    *slog.Logger

	mu        sync.RWMutex
	gen       uint64
	state     State
	user      *models.User
	listeners map[int]Listener
	nextID    int
}

// NewController creates a Controller in the Uninitialized state.
func NewController(cfg Config) *Controller {
	c := &Controller{
		api:       cfg.API,
		tokens:    cfg.Tokens,
		checker:   cfg.Checker,
		navigator: cfg.Navigator,
		logger:    cfg.Logger,
		listeners: make(map[int]Listener),
	}
	if c.checker == nil {
		c.checker = auth.NewExpiryChecker(nil)
	}
	if c.navigator == nil {
		c.navigator = NavigatorFunc(func() {})
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Init restores the session from stored tokens.
//
// Only an unexpired stored access token is used: anything else clears the
// tokens and leaves the session Anonymous without a network call. If another
// transition happens while the profile is fetched, the fetched user is
// dropped and the newer state stands.
func (c *Controller) Init(ctx context.Context) State {
	gen := c.transition(Loading, nil)

	access, err := c.tokens.Get(ctx, tokenstore.Access)
	if err != nil || access == "" {
		return c.anonymous(ctx, gen, "no stored access token")
	}
	if c.checker.IsExpired(access) {
		return c.anonymous(ctx, gen, "stored access token expired")
	}

	user, err := c.api.Profile(ctx)
	if err != nil {
		c.logger.Warn("failed to restore session", "error", err)
		return c.anonymous(ctx, gen, "profile fetch failed")
	}

	if !c.commit(Authenticated, user, c.unchangedSince(gen)) {
		c.logger.Info("discarded stale session restore", "user_id", user.ID)
		return c.State()
	}
	c.logger.Info("session restored", "user_id", user.ID)
	return Authenticated
}

// anonymous ends a restore that started at gen. Tokens are only cleared when
// nothing else has changed the session since.
func (c *Controller) anonymous(ctx context.Context, gen uint64, why string) State {
	if !c.commit(Anonymous, nil, c.unchangedSince(gen)) {
		return c.State()
	}
	if err := c.tokens.ClearAll(ctx); err != nil {
		c.logger.Error("failed to clear tokens", "error", err)
	}
	c.logger.Info("session anonymous", "reason", why)
	return Anonymous
}

// Login records user as signed in. Tokens must already be stored.
func (c *Controller) Login(user models.User) {
	c.transition(Authenticated, &user)
	c.logger.Info("signed in", "user_id", user.ID)
}

// SignIn validates the form, signs in and stores the returned tokens.
func (c *Controller) SignIn(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := validator.Login(req); err != nil {
		return nil, err
	}

	resp, err := c.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, resp)
}

// SignUp validates the form, registers and signs the new user in.
func (c *Controller) SignUp(ctx context.Context, req *models.RegisterRequest, image *api.Image) (*models.User, error) {
	if err := validator.Register(req); err != nil {
		return nil, err
	}
	if image != nil {
		if err := validator.Image(image.Data, image.ContentType); err != nil {
			return nil, err
		}
	}

	resp, err := c.api.Register(ctx, req, image)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, resp)
}

func (c *Controller) establish(ctx context.Context, resp *models.AuthResponse) (*models.User, error) {
	pair := resp.Pair()
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in auth response", apperrors.ErrInvalidResponse)
	}
	if err := c.tokens.SetPair(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	c.Login(resp.User)
	return resp.User.Clone(), nil
}

// Logout clears tokens and user and navigates to login. Safe to repeat.
func (c *Controller) Logout(ctx context.Context) {
	c.end(ctx)
	c.logger.Info("signed out")
}

// Expire ends the session after a failed token refresh. It matches
// httpclient.ExpiryHook and is safe to repeat.
func (c *Controller) Expire(ctx context.Context, reason error) {
	c.end(ctx)
	if errors.Is(reason, apperrors.ErrNoSession) {
		c.logger.Info("session ended", "reason", reason)
		return
	}
	c.logger.Warn("session expired", "reason", reason)
}

// end drops the user before the tokens so no reader sees a user without them.
func (c *Controller) end(ctx context.Context) {
	c.transition(Anonymous, nil)
	if err := c.tokens.ClearAll(ctx); err != nil {
		c.logger.Error("failed to clear tokens", "error", err)
	}
	c.navigator.ToLogin()
}

// UpdateUser replaces the signed-in user wholesale.
func (c *Controller) UpdateUser(user models.User) error {
	if !c.commit(Authenticated, &user, func() bool { return c.state == Authenticated }) {
		return apperrors.ErrNotAuthenticated
	}
	return nil
}

// UpdateProfile validates and sends a profile update, then installs the
// server's copy of the user. The copy is dropped with ErrNotAuthenticated
// when the session changed while the update was in flight.
func (c *Controller) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	c.mu.RLock()
	state, gen := c.state, c.gen
	c.mu.RUnlock()

	if state != Authenticated {
		return nil, apperrors.ErrNotAuthenticated
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := c.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	if !c.commit(Authenticated, user, c.unchangedSince(gen)) {
		c.logger.Info("discarded profile update for an ended session", "user_id", user.ID)
		return nil, apperrors.ErrNotAuthenticated
	}
	return user.Clone(), nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (c *Controller) CurrentUser() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.Clone()
}

// UserID returns the signed-in user's id, or "".
func (c *Controller) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.ID
}

// IsAuthenticated reports whether a user is signed in.
func (c *Controller) IsAuthenticated() bool {
	return c.State() == Authenticated
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Guard decides how a protected view renders.
func (c *Controller) Guard() Decision {
	switch c.State() {
	case Authenticated:
		return GuardAllow
	case Anonymous:
		return GuardRedirect
	default:
		return GuardPending
	}
}

// Subscribe registers fn for state transitions and returns a function that
// removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// transition installs the new state unconditionally and returns its generation.
func (c *Controller) transition(state State, user *models.User) uint64 {
	var gen uint64
	c.commit(state, user, func() bool {
		gen = c.gen + 1
		return true
	})
	return gen
}

// unchangedSince holds while no transition followed generation gen.
// It runs under c.mu.
func (c *Controller) unchangedSince(gen uint64) func() bool {
	return func() bool { return c.gen == gen }
}

// commit installs the new state if ok, evaluated under the same lock, still
// holds. Listeners are notified outside the lock.
func (c *Controller) commit(state State, user *models.User, ok func() bool) bool {
	c.mu.Lock()
	if !ok() {
		c.mu.Unlock()
		return false
	}
	c.gen++
	c.state = state
	c.user = user.Clone()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	snapshot := c.user
	c.mu.Unlock()

	for _, l := range listeners {
		l(state, snapshot.Clone())
	}
	return true
}
