// Package api contains the typed calls the client makes against the blog API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"blog-client/internal/httpclient"
	"blog-client/internal/models"
)

// Image is an upload attached to a multipart call.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i *Image) part(field string) *httpclient.FilePart {
	if i == nil {
		return nil
	}
	return &httpclient.FilePart{Field: field, Filename: i.Filename, ContentType: i.ContentType, Data: i.Data}
}

// Doer is the transport the service sends requests through.
type Doer interface {
	Do(ctx context.Context, req httpclient.Request, out interface{}) error
}

// Service handles the blog API endpoints.
type Service struct {
	client Doer
}

// NewService creates a new Service.
func NewService(client Doer) *Service {
	return &Service{client: client}
}

// Login exchanges credentials for a token pair and the user's profile.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	r, err := httpclient.JSON(http.MethodPost, "/login", req)
	if err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := s.client.Do(ctx, r.AsPublic(), &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. The profile image is optional.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest, image *Image) (*models.AuthResponse, error) {
	prefs, err := json.Marshal(req.Preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}

	fields := []httpclient.Field{
		{Name: "firstName", Value: req.FirstName},
		{Name: "lastName", Value: req.LastName},
		{Name: "email", Value: req.Email},
		{Name: "phone", Value: req.Phone},
		{Name: "dateOfBirth", Value: req.DateOfBirth},
		{Name: "password", Value: req.Password},
		{Name: "preferences", Value: string(prefs)},
	}

	r, err := httpclient.Multipart(http.MethodPost, "/register", fields, image.part("image"))
	if err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := s.client.Do(ctx, r.AsPublic(), &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

// Profile returns the signed-in user.
func (s *Service) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.Do(ctx, httpclient.Get("/profile", nil), &user); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update and returns the full user.
func (s *Service) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	r, err := httpclient.JSON(http.MethodPut, "/update_profile", req)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.client.Do(ctx, r, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// ListArticles returns one page of the feed. An empty or "all" category and
// an empty search are not sent.
func (s *Service) ListArticles(ctx context.Context, params models.ListArticlesParams) (*models.ArticlePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if c := strings.TrimSpace(params.Category); c != "" && c != "all" {
		q.Set("category", c)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		q.Set("search", search)
	}

	var page models.ArticlePage
	if err := s.client.Do(ctx, httpclient.Get("/articles", q), &page); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return &page, nil
}

// GetArticle fetches one article.
func (s *Service) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := s.client.Do(ctx, httpclient.Get(articlePath(id), nil), &article); err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}
	return &article, nil
}

// CreateArticle publishes a new article.
func (s *Service) CreateArticle(ctx context.Context, req *models.ArticleRequest, image *Image) (*models.Article, error) {
	tags, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	fields := []httpclient.Field{
		{Name: "title", Value: req.Title},
		{Name: "description", Value: req.Description},
		{Name: "category", Value: req.Category},
		{Name: "tags", Value: string(tags)},
	}

	r, err := httpclient.Multipart(http.MethodPost, "/articles", fields, image.part("image"))
	if err != nil {
		return nil, err
	}

	var article models.Article
	if err := s.client.Do(ctx, r, &article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return &article, nil
}

// DeleteArticle removes one of the user's own articles.
func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if err := s.client.Do(ctx, httpclient.Delete(articlePath(id)), nil); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// UserArticles lists the articles written by the signed-in user.
func (s *Service) UserArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := s.client.Do(ctx, httpclient.Get("/articles/user", nil), &articles); err != nil {
		return nil, fmt.Errorf("list user articles: %w", err)
	}
	return articles, nil
}

// Like toggles the user's like and returns the server's reaction sets.
func (s *Service) Like(ctx context.Context, id string) (*models.ReactionResult, error) {
	return s.react(ctx, id, "like")
}

// Dislike toggles the user's dislike and returns the server's reaction sets.
func (s *Service) Dislike(ctx context.Context, id string) (*models.ReactionResult, error) {
	return s.react(ctx, id, "dislike")
}

func (s *Service) react(ctx context.Context, id, kind string) (*models.ReactionResult, error) {
	var result models.ReactionResult
	if err := s.client.Do(ctx, httpclient.Post(articlePath(id)+"/"+kind), &result); err != nil {
		return nil, fmt.Errorf("%s article %s: %w", kind, id, err)
	}
	return &result, nil
}

// Block toggles whether the user hides an article and returns it updated.
func (s *Service) Block(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := s.client.Do(ctx, httpclient.Post(articlePath(id)+"/block"), &article); err != nil {
		return nil, fmt.Errorf("block article %s: %w", id, err)
	}
	return &article, nil
}

func articlePath(id string) string {
	return "/articles/" + url.PathEscape(id)
}
