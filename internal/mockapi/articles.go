package mockapi

import (
	"context"
	"slices"
	"strings"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ArticleService implements the article endpoints.
type ArticleService struct {
	store *Store
}

// NewArticleService creates a new ArticleService.
func NewArticleService(store *Store) *ArticleService {
	return &ArticleService{store: store}
}

// List returns one page of live articles matching params, newest first.
// Search matches title, description and tags case-insensitively.
func (s *ArticleService) List(_ context.Context, params models.ListArticlesParams) *models.ArticlePage {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = defaultPageSize
	}
	params.Limit = min(params.Limit, maxPageSize)

	category := strings.TrimSpace(params.Category)
	if category == "all" {
		category = ""
	}
	search := strings.ToLower(strings.TrimSpace(params.Search))

	matches := s.store.Articles(func(a *models.Article) bool {
		if a.Deleted {
			return false
		}
		if category != "" && a.Category != category {
			return false
		}
		return search == "" || matchesSearch(a, search)
	})

	total := len(matches)
	totalPages := (total + params.Limit - 1) / params.Limit
	start := min((params.Page-1)*params.Limit, total)
	end := min(start+params.Limit, total)

	return &models.ArticlePage{
		Articles: matches[start:end],
		HasMore:  params.Page < totalPages,
		Pagination: &models.Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}
}

func matchesSearch(a *models.Article, needle string) bool {
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Description), needle) {
		return true
	}
	return slices.ContainsFunc(a.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), needle)
	})
}

// Get returns a live article.
func (s *ArticleService) Get(_ context.Context, id string) (*models.Article, error) {
	return s.store.Article(id)
}

// Create publishes an article for authorID.
func (s *ArticleService) Create(_ context.Context, authorID string, req *models.ArticleRequest, image string) (*models.Article, error) {
	return s.store.AddArticle(authorID, models.Article{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Image:       image,
	})
}

// Delete soft-deletes one of userID's own articles.
func (s *ArticleService) Delete(_ context.Context, userID, id string) error {
	_, err := s.store.MutateArticle(id, func(a *models.Article) error {
		if a.Author.ID != userID {
			return apperrors.ErrArticleForbidden
		}
		a.Deleted = true
		return nil
	})
	return err
}

// ByAuthor lists userID's live articles.
func (s *ArticleService) ByAuthor(_ context.Context, userID string) []models.Article {
	return s.store.Articles(func(a *models.Article) bool {
		return !a.Deleted && a.Author.ID == userID
	})
}

// Like toggles userID's like. Liking removes an existing dislike.
func (s *ArticleService) Like(_ context.Context, userID, id string) (*models.ReactionResult, error) {
	a, err := s.store.MutateArticle(id, func(a *models.Article) error {
		a.Likes, a.Dislikes = toggle(a.Likes, a.Dislikes, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reaction(a, userID), nil
}

// Dislike toggles userID's dislike. Disliking removes an existing like.
func (s *ArticleService) Dislike(_ context.Context, userID, id string) (*models.ReactionResult, error) {
	a, err := s.store.MutateArticle(id, func(a *models.Article) error {
		a.Dislikes, a.Likes = toggle(a.Dislikes, a.Likes, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reaction(a, userID), nil
}

// ToggleBlock adds or removes userID from the article's blocks.
func (s *ArticleService) ToggleBlock(_ context.Context, userID, id string) (*models.Article, error) {
	return s.store.MutateArticle(id, func(a *models.Article) error {
		if i := slices.Index(a.Blocks, userID); i >= 0 {
			a.Blocks = slices.Delete(a.Blocks, i, i+1)
		} else {
			a.Blocks = append(a.Blocks, userID)
		}
		return nil
	})
}

// toggle flips userID in set and, when adding, removes it from opposite.
func toggle(set, opposite []string, userID string) ([]string, []string) {
	if i := slices.Index(set, userID); i >= 0 {
		return slices.Delete(set, i, i+1), opposite
	}
	if i := slices.Index(opposite, userID); i >= 0 {
		opposite = slices.Delete(opposite, i, i+1)
	}
	return append(set, userID), opposite
}

func reaction(a *models.Article, userID string) *models.ReactionResult {
	return &models.ReactionResult{
		IsLiked:    a.LikedBy(userID),
		IsDisliked: a.DislikedBy(userID),
		Likes:      nonNil(a.Likes),
		Dislikes:   nonNil(a.Dislikes),
	}
}
