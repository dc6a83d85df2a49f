package models

import (
	"encoding/json"
	"slices"
	"time"
)

// Categories lists the article categories known to the platform.
var Categories = []string{
	"sports", "politics", "space", "technology", "entertainment", "health",
	"science", "business", "education", "travel", "food", "fashion", "art",
	"music", "gaming", "environment",
}

// Article represents a published blog article.
type Article struct {
	ID          string    `json:"id" example:"64f1c2a9e13b2a0012ab34cd"`
	Title       string    `json:"title" example:"Why Go?"`
	Description string    `json:"description" example:"A short tour of the language"`
	Category    string    `json:"category" example:"technology"`
	Tags        []string  `json:"tags" example:"go,backend"`
	Image       string    `json:"image,omitempty" example:"/uploads/go.png"`
	Author      UserRef   `json:"author"`
	CreatedAt   time.Time `json:"createdAt" example:"2024-01-15T09:30:00Z"`
	Likes       []string  `json:"likes"`
	Dislikes    []string  `json:"dislikes"`
	Blocks      []string  `json:"blocks"`
	Deleted     bool      `json:"deleted,omitempty"`
}

// UnmarshalJSON accepts both "id" and the legacy "_id" key.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	aux := struct {
		*plain
		LegacyID string `json:"_id"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.LegacyID
	}
	return nil
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() Article {
	c := *a
	c.Tags = slices.Clone(a.Tags)
	c.Likes = slices.Clone(a.Likes)
	c.Dislikes = slices.Clone(a.Dislikes)
	c.Blocks = slices.Clone(a.Blocks)
	return c
}

// LikedBy reports whether userID is in the likes set.
func (a *Article) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(a.Likes, userID)
}

// DislikedBy reports whether userID is in the dislikes set.
func (a *Article) DislikedBy(userID string) bool {
	return userID != "" && slices.Contains(a.Dislikes, userID)
}

// BlockedBy reports whether userID has blocked the article.
func (a *Article) BlockedBy(userID string) bool {
	return userID != "" && slices.Contains(a.Blocks, userID)
}

// ArticlePage is the response for listing articles.
type ArticlePage struct {
	Articles   []Article   `json:"articles"`
	HasMore    bool        `json:"hasMore"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination contains pagination metadata.
type Pagination struct {
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"10"`
	TotalItems int `json:"totalItems" example:"42"`
	TotalPages int `json:"totalPages" example:"5"`
}

// ListArticlesParams are the query parameters for GET /articles.
type ListArticlesParams struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// ReactionResult is the authoritative post-mutation state of a like or dislike.
type ReactionResult struct {
	IsLiked    bool     `json:"isLiked"`
	IsDisliked bool     `json:"isDisliked"`
	Likes      []string `json:"likes"`
	Dislikes   []string `json:"dislikes"`
}

// ArticleRequest is the payload for creating or updating an article.
type ArticleRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10"`
	Category    string   `json:"category" validate:"required,category"`
	Tags        []string `json:"tags" validate:"max=10,dive,min=1,max=50"`
}
