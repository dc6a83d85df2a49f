// Package feed loads the paginated article feed and keeps the accumulated
// list consistent across filter changes and concurrent loads.
package feed

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"blog-client/internal/models"
)

const (
	// DefaultPageSize is the number of articles requested per page.
	DefaultPageSize = 10
	// DefaultThreshold is the distance in pixels from the bottom that triggers a load.
	DefaultThreshold = 100
)

// ArticleLister fetches one page of articles.
type ArticleLister interface {
	ListArticles(ctx context.Context, params models.ListArticlesParams) (*models.ArticlePage, error)
}

// Viewer identifies the current user. An empty id means anonymous.
type Viewer interface {
	UserID() string
}

type anonymous struct{}

func (anonymous) UserID() string { return "" }

// Filter narrows the feed. An empty or "all" category means every category.
type Filter struct {
	Category string
	Search   string
}

func (f Filter) normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "all" {
		f.Category = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Page is one fetched page.
type Page struct {
	Articles []models.Article
	HasMore  bool
}

// Viewport is the scroll geometry of the feed view.
type Viewport struct {
	ScrollTop      float64
	ViewportHeight float64
	DocumentHeight float64
}

// NearBottom reports whether the visible bottom edge is within threshold of the end.
func (v Viewport) NearBottom(threshold float64) bool {
	return v.ScrollTop+v.ViewportHeight >= v.DocumentHeight-threshold
}

// Config holds the dependencies of a Loader.
type Config struct {
	Lister    ArticleLister
	Viewer    Viewer
	PageSize  int
	Threshold float64
	Logger    *slog.Logger
}

// Loader accumulates feed pages for the active filter.
type Loader struct {
	lister    ArticleLister
	viewer    Viewer
	pageSize  int
	threshold float64
	logger    *slog.Logger

	mu          sync.RWMutex
	filter      Filter
	items       []models.Article
	page        int
	hasMore     bool
	loading     bool
	loadingMore bool
	generation  uint64
}

// NewLoader creates an empty Loader.
func NewLoader(cfg Config) *Loader {
	l := &Loader{
		lister:    cfg.Lister,
		viewer:    cfg.Viewer,
		pageSize:  cfg.PageSize,
		threshold: cfg.Threshold,
		logger:    cfg.Logger,
	}
	if l.viewer == nil {
		l.viewer = anonymous{}
	}
	if l.pageSize <= 0 {
		l.pageSize = DefaultPageSize
	}
	if l.threshold <= 0 {
		l.threshold = DefaultThreshold
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load fetches one page for filter without touching the accumulated list.
// A page past the first that comes back empty has nothing after it.
func (l *Loader) Load(ctx context.Context, filter Filter, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	f := filter.normalize()

	resp, err := l.lister.ListArticles(ctx, models.ListArticlesParams{
		Page:     page,
		Limit:    l.pageSize,
		Category: f.Category,
		Search:   f.Search,
	})
	if err != nil {
		return Page{}, err
	}

	hasMore := resp.HasMore
	if !hasMore && resp.Pagination != nil {
		hasMore = resp.Pagination.Page < resp.Pagination.TotalPages
	}
	if page > 1 && len(resp.Articles) == 0 {
		hasMore = false
	}
	return Page{Articles: resp.Articles, HasMore: hasMore}, nil
}

// SetFilter discards the current list and loads the first page for f.
// Responses for an older filter that arrive later are ignored.
func (l *Loader) SetFilter(ctx context.Context, f Filter) error {
	f = f.normalize()

	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.filter = f
	l.items = nil
	l.page = 0
	l.hasMore = false
	l.loading = true
	l.loadingMore = false
	l.mu.Unlock()

	l.logger.Debug("loading feed", "category", f.Category, "search", f.Search)
	p, err := l.Load(ctx, f, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.Debug("discarded superseded feed page", "page", 1)
		return nil
	}
	l.loading = false
	if err != nil {
		l.logger.Warn("failed to load feed", "error", err)
		return err
	}

	l.items = l.merge(nil, p.Articles)
	l.page = 1
	l.hasMore = p.HasMore
	return nil
}

// LoadMore appends the next page. It reports whether a request was made:
// nothing is fetched while a load is running or when no more pages exist.
func (l *Loader) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.loading || l.loadingMore || !l.hasMore {
		l.mu.Unlock()
		return false, nil
	}
	l.loadingMore = true
	gen := l.generation
	next := l.page + 1
	f := l.filter
	l.mu.Unlock()

	p, err := l.Load(ctx, f, next)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.Debug("discarded superseded feed page", "page", next)
		return true, nil
	}
	l.loadingMore = false
	if err != nil {
		l.logger.Warn("failed to load more articles", "page", next, "error", err)
		return true, err
	}

	l.items = l.merge(l.items, p.Articles)
	l.page = next
	l.hasMore = p.HasMore
	return true, nil
}

// OnScroll loads the next page when v is near the bottom.
func (l *Loader) OnScroll(ctx context.Context, v Viewport) (bool, error) {
	if !v.NearBottom(l.threshold) {
		return false, nil
	}
	return l.LoadMore(ctx)
}

// merge appends incoming articles to items, keeping server order, skipping ids
// already present and articles that are deleted or hidden by the viewer.
// Callers hold l.mu.
func (l *Loader) merge(items, incoming []models.Article) []models.Article {
	viewer := l.viewer.UserID()

	seen := make(map[string]struct{}, len(items)+len(incoming))
	for _, a := range items {
		seen[a.ID] = struct{}{}
	}

	for i := range incoming {
		a := &incoming[i]
		if a.Deleted || a.BlockedBy(viewer) {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		items = append(items, a.Clone())
	}
	return items
}

// ApplyReaction installs the server's reaction sets on article id.
func (l *Loader) ApplyReaction(id string, likes, dislikes []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	// Replace the element so earlier copies handed out stay untouched.
	a := l.items[i].Clone()
	a.Likes = append([]string{}, likes...)
	a.Dislikes = append([]string{}, dislikes...)
	l.items[i] = a
	return true
}

// Replace swaps in a new version of an article already in the list.
func (l *Loader) Replace(article models.Article) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(article.ID)
	if i < 0 {
		return false
	}
	l.items[i] = article.Clone()
	return true
}

// Remove drops article id from the list.
func (l *Loader) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

func (l *Loader) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of article id.
func (l *Loader) Get(id string) (models.Article, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.index(id)
	if i < 0 {
		return models.Article{}, false
	}
	return l.items[i].Clone(), true
}

// Items returns a copy of the accumulated articles.
func (l *Loader) Items() []models.Article {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Article, len(l.items))
	for i := range l.items {
		out[i] = l.items[i].Clone()
	}
	return out
}

// HasMore reports whether the server has pages past the last one merged.
func (l *Loader) HasMore() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasMore
}

// IsLoading reports whether a first-page load is in flight.
func (l *Loader) IsLoading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// IsLoadingMore reports whether a LoadMore call is in flight.
func (l *Loader) IsLoadingMore() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadingMore
}

// Page returns the last page merged into the list, 0 before the first load.
func (l *Loader) Page() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

// Filter returns the active filter.
func (l *Loader) Filter() Filter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}
