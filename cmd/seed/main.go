package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"blog-client/internal/api"
	"blog-client/internal/config"
	apperrors "blog-client/internal/errors"
	"blog-client/internal/httpclient"
	"blog-client/internal/models"
	"blog-client/internal/tokenstore"
)

// SeedUser is an account created through the public register endpoint.
type SeedUser struct {
	Request  models.RegisterRequest
	Articles []SeedArticle
}

// SeedArticle is an article published by its SeedUser.
type SeedArticle struct {
	Request  models.ArticleRequest
	ImageKey string
}

var seedUsers = []SeedUser{
	{
		Request: models.RegisterRequest{
			FirstName:   "Alice",
			LastName:    "Johnson",
			Email:       "alice@example.com",
			Phone:       "5550000001",
			DateOfBirth: "1990-04-12",
			Password:    "Password123!",
			Preferences: []string{"technology", "space", "science"},
		},
		Articles: []SeedArticle{
			{Request: models.ArticleRequest{
				Title:       "Notes from the Q4 launch",
				Description: "What we learned shipping the new mobile app, and what we would do differently next time.",
				Category:    "technology",
				Tags:        []string{"mobile", "launch"},
			}, ImageKey: "launch.gif"},
			{Request: models.ArticleRequest{
				Title:       "Watching the Perseids",
				Description: "A beginner's guide to catching the August meteor shower away from city lights.",
				Category:    "space",
				Tags:        []string{"astronomy", "night-sky"},
			}},
			{Request: models.ArticleRequest{
				Title:       "Sourdough, scientifically",
				Description: "Why starter temperature matters more than flour brand for a good rise.",
				Category:    "science",
				Tags:        []string{"baking", "chemistry"},
			}},
		},
	},
	{
		Request: models.RegisterRequest{
			FirstName:   "Bob",
			LastName:    "Smith",
			Email:       "bob@example.com",
			Phone:       "5550000002",
			DateOfBirth: "1987-11-30",
			Password:    "Password456!",
			Preferences: []string{"sports", "travel"},
		},
		Articles: []SeedArticle{
			{Request: models.ArticleRequest{
				Title:       "Ten days in Lisbon",
				Description: "Trams, tiles and too many pastries: an itinerary for a first visit.",
				Category:    "travel",
				Tags:        []string{"portugal", "city-break"},
			}, ImageKey: "lisbon.gif"},
			{Request: models.ArticleRequest{
				Title:       "Marathon training on a budget",
				Description: "A sixteen week plan that needs nothing more than decent shoes and patience.",
				Category:    "sports",
				Tags:        []string{"running"},
			}},
		},
	},
}

func main() {
	log.Println("Starting seed...")

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var total int
	for _, u := range seedUsers {
		total += seedUser(ctx, cfg, u)
	}

	log.Printf("Seed completed successfully! (%d articles)", total)
}

// seedUser signs the user up, or in when the account already exists, and
// publishes their articles. Each user gets a private token store.
func seedUser(ctx context.Context, cfg *config.Config, u SeedUser) int {
	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.APIURL,
		Tokens:  tokenstore.NewMemory(),
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	service := api.NewService(client)

	req := u.Request
	req.ConfirmPassword = req.Password

	resp, err := service.Register(ctx, &req, nil)
	if errors.Is(err, apperrors.ErrConflict) {
		log.Printf("User %s exists, signing in", req.Email)
		resp, err = service.Login(ctx, &models.LoginRequest{Identifier: req.Email, Password: req.Password})
	}
	if err != nil {
		log.Fatalf("Failed to seed user %s: %v", req.Email, err)
	}
	if err := client.Tokens().SetPair(ctx, resp.Pair()); err != nil {
		log.Fatalf("Failed to store tokens for %s: %v", req.Email, err)
	}
	log.Printf("Seeded user %s (%s)", req.Email, resp.User.ID)

	var count int
	for _, a := range u.Articles {
		article, err := service.CreateArticle(ctx, &a.Request, placeholderImage(a.ImageKey))
		if err != nil {
			log.Printf("Warning: Failed to publish %q: %v", a.Request.Title, err)
			continue
		}
		count++
		log.Printf("Published article %s: %s", article.ID, article.Title)
	}
	return count
}

// placeholderImage builds a small GIF-signed upload, or nil without a key.
func placeholderImage(key string) *api.Image {
	if key == "" {
		return nil
	}
	data := append([]byte("GIF89a"), bytes.Repeat([]byte{0x01, 0x00}, 32)...)
	return &api.Image{Filename: key, ContentType: "image/gif", Data: data}
}
