package cli

import (
	"errors"
	"fmt"
	"strings"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/feed"
	"blog-client/internal/models"
	"blog-client/internal/validator"

	"github.com/spf13/cobra"
)

// FeedOptions holds flags for the feed command.
type FeedOptions struct {
	*RootOptions
	Category string
	Search   string
	Pages    int
}

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List articles, newest first",
		Long: `List articles, newest first. Deleted articles and articles you have
blocked are not shown. --pages keeps loading further pages while the server
reports more.`,
		Example: `  blog feed --category space
  blog feed --search golang --pages 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "all", "Category to show, or all")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Match title, description or tags")
	cmd.Flags().IntVar(&opts.Pages, "pages", 1, "Number of pages to load")

	return cmd
}

func runFeed(cmd *cobra.Command, opts *FeedOptions) error {
	if opts.Pages < 1 {
		return NewExitError(ExitCommandError, "--pages must be at least 1")
	}

	app := opts.App()
	ctx := cmd.Context()
	if err := app.RequireSession(ctx); err != nil {
		return err
	}

	if err := app.Feed.SetFilter(ctx, feed.Filter{Category: opts.Category, Search: opts.Search}); err != nil {
		return commandError("failed to load feed", err)
	}
	for app.Feed.Page() < opts.Pages && app.Feed.HasMore() {
		if _, err := app.Feed.LoadMore(ctx); err != nil {
			return commandError("failed to load more articles", err)
		}
	}

	app.Logger.Debug("feed loaded", "pages", app.Feed.Page(), "has_more", app.Feed.HasMore())
	return opts.printer(cmd).Articles(app.Feed.Items(), app.Session.UserID())
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <article-id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			article, err := app.API.GetArticle(cmd.Context(), args[0])
			if errors.Is(err, apperrors.ErrNotFound) {
				return notFound("article", args[0])
			}
			if err != nil {
				return commandError("failed to load article", err)
			}
			return rootOpts.printer(cmd).Article(article, app.Session.UserID())
		},
	}
}

// NewMineCommand creates the mine command.
func NewMineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the articles you wrote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			articles, err := app.API.UserArticles(cmd.Context())
			if err != nil {
				return commandError("failed to list your articles", err)
			}
			return rootOpts.printer(cmd).Articles(articles, app.Session.UserID())
		},
	}
}

// PublishOptions holds flags for the publish command.
type PublishOptions struct {
	*RootOptions
	Title       string
	Description string
	Category    string
	Tags        []string
	ImagePath   string
}

// NewPublishCommand creates the publish command.
func NewPublishCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PublishOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "publish",
		Short:   "Publish a new article",
		Example: `  blog publish --title "Why Go?" --description "A short tour" --category technology --tags go,backend`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Article title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Article body")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Article category")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "Cover image (JPEG, PNG or GIF)")
	for _, name := range []string{"title", "description", "category"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runPublish(cmd *cobra.Command, opts *PublishOptions) error {
	req := &models.ArticleRequest{
		Title:       strings.TrimSpace(opts.Title),
		Description: strings.TrimSpace(opts.Description),
		Category:    strings.TrimSpace(opts.Category),
		Tags:        opts.Tags,
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if err := validator.Struct(req); err != nil {
		return commandError("invalid article", err)
	}

	image, err := readImage(opts.ImagePath)
	if err != nil {
		return err
	}
	if image != nil {
		if err := validator.Image(image.Data, image.ContentType); err != nil {
			return commandError("invalid image", err)
		}
	}

	app := opts.App()
	if err := app.RequireSession(cmd.Context()); err != nil {
		return err
	}
	article, err := app.API.CreateArticle(cmd.Context(), req, image)
	if err != nil {
		return commandError("failed to publish article", err)
	}
	return opts.printer(cmd).Article(article, app.Session.UserID())
}

// NewReactionCommand creates the like or dislike command. Running it again
// on the same article takes the reaction back.
func NewReactionCommand(rootOpts *RootOptions, action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <article-id>",
		Short: fmt.Sprintf("Toggle your %s on an article", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}

			react := app.Reactions.Like
			if action == "dislike" {
				react = app.Reactions.Dislike
			}
			result, err := react(cmd.Context(), args[0])
			if err != nil {
				return commandError(action+" failed", err)
			}

			text := fmt.Sprintf("%s  +%d -%d", args[0], len(result.Likes), len(result.Dislikes))
			switch {
			case result.IsLiked:
				text += "  (liked)"
			case result.IsDisliked:
				text += "  (disliked)"
			}
			return rootOpts.printer(cmd).Result(result, text)
		},
	}
}

// NewBlockCommand creates the block command.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "block <article-id>",
		Short: "Hide an article from your feed, or show it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			article, err := app.Reactions.ToggleBlock(cmd.Context(), args[0])
			if err != nil {
				return commandError("block failed", err)
			}

			state := "unblocked"
			if article.BlockedBy(app.Session.UserID()) {
				state = "blocked"
			}
			return rootOpts.printer(cmd).Result(article, args[0]+" "+state)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <article-id>",
		Short: "Delete one of your articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := rootOpts.App()
			if err := app.RequireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Reactions.Delete(cmd.Context(), args[0]); err != nil {
				return commandError("delete failed", err)
			}
			return rootOpts.printer(cmd).Result(map[string]string{"deleted": args[0]}, args[0]+" deleted")
		},
	}
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List article categories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.printer(cmd).Result(models.Categories, strings.Join(models.Categories, "\n"))
		},
	}
}
