// Package reaction sends like, dislike and block actions and installs the
// server's answer in the feed.
package reaction

import (
	"context"
	"log/slog"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"
	"blog-client/internal/queue"
)

// Reactor is the subset of the API the reconciler calls.
type Reactor interface {
	Like(ctx context.Context, id string) (*models.ReactionResult, error)
	Dislike(ctx context.Context, id string) (*models.ReactionResult, error)
	Block(ctx context.Context, id string) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

// Feed is the local article list the reconciler keeps in sync.
type Feed interface {
	ApplyReaction(id string, likes, dislikes []string) bool
	Replace(article models.Article) bool
	Remove(id string) bool
}

// Viewer identifies the signed-in user. An empty id means anonymous.
type Viewer interface {
	UserID() string
}

// Navigator moves the user to the login view.
type Navigator interface {
	ToLogin()
}

// Notifier accepts transient notices.
type Notifier interface {
	Enqueue(n queue.Notice) error
}

// Config holds the dependencies of a Reconciler.
type Config struct {
	API       Reactor
	Feed      Feed
	Viewer    Viewer
	Navigator Navigator
	Notices   Notifier
	Logger    *slog.Logger
}

// Reconciler applies reactions without optimistic updates: local state only
// changes to what the server returned.
type Reconciler struct {
	api       Reactor
	feed      Feed
	viewer    Viewer
	navigator Navigator
	notices   Notifier
	logger    *slog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(cfg Config) *Reconciler {
	r := &Reconciler{
		api:       cfg.API,
		feed:      cfg.Feed,
		viewer:    cfg.Viewer,
		navigator: cfg.Navigator,
		notices:   cfg.Notices,
		logger:    cfg.Logger,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Like toggles the viewer's like on article id.
func (r *Reconciler) Like(ctx context.Context, id string) (*models.ReactionResult, error) {
	return r.react(ctx, id, "like", r.api.Like)
}

// Dislike toggles the viewer's dislike on article id.
func (r *Reconciler) Dislike(ctx context.Context, id string) (*models.ReactionResult, error) {
	return r.react(ctx, id, "dislike", r.api.Dislike)
}

func (r *Reconciler) react(
	ctx context.Context,
	id, action string,
	call func(context.Context, string) (*models.ReactionResult, error),
) (*models.ReactionResult, error) {
	if err := r.requireViewer(); err != nil {
		return nil, err
	}

	result, err := call(ctx, id)
	if err != nil {
		r.logger.Warn("reaction failed", "action", action, "article_id", id, "error", err)
		r.notify(queue.LevelError, "Failed to "+action+" article")
		return nil, err
	}

	if r.feed != nil {
		r.feed.ApplyReaction(id, result.Likes, result.Dislikes)
	}
	r.logger.Debug("reaction applied", "action", action, "article_id", id, "likes", len(result.Likes), "dislikes", len(result.Dislikes))
	return result, nil
}

// ToggleBlock blocks or unblocks article id. A newly blocked article leaves
// the feed; an unblocked one is replaced with the server's copy.
func (r *Reconciler) ToggleBlock(ctx context.Context, id string) (*models.Article, error) {
	if err := r.requireViewer(); err != nil {
		return nil, err
	}

	article, err := r.api.Block(ctx, id)
	if err != nil {
		r.logger.Warn("block failed", "article_id", id, "error", err)
		r.notify(queue.LevelError, "Failed to update block status")
		return nil, err
	}

	if article.BlockedBy(r.viewer.UserID()) {
		if r.feed != nil {
			r.feed.Remove(id)
		}
		r.notify(queue.LevelSuccess, "Article blocked")
	} else {
		if r.feed != nil {
			r.feed.Replace(*article)
		}
		r.notify(queue.LevelSuccess, "Article unblocked")
	}
	return article, nil
}

// Delete removes one of the viewer's own articles.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	if err := r.requireViewer(); err != nil {
		return err
	}

	if err := r.api.DeleteArticle(ctx, id); err != nil {
		r.logger.Warn("delete failed", "article_id", id, "error", err)
		r.notify(queue.LevelError, "Failed to delete article")
		return err
	}

	if r.feed != nil {
		r.feed.Remove(id)
	}
	r.notify(queue.LevelSuccess, "Article deleted successfully")
	return nil
}

func (r *Reconciler) requireViewer() error {
	if r.viewer != nil && r.viewer.UserID() != "" {
		return nil
	}
	if r.navigator != nil {
		r.navigator.ToLogin()
	}
	return apperrors.ErrNotAuthenticated
}

func (r *Reconciler) notify(level queue.Level, message string) {
	if r.notices == nil {
		return
	}
	if err := r.notices.Enqueue(queue.NewNotice(level, message)); err != nil {
		r.logger.Debug("notice dropped", "message", message, "error", err)
	}
}
