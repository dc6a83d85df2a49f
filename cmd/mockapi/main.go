package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-client/internal/cache"
	"blog-client/internal/config"
	"blog-client/internal/mockapi"
	"blog-client/internal/storage"
	"blog-client/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title           Blog API (fake)
// @version         1.0
// @description     In-memory implementation of the 4blogs REST API used by the blog client tests and CLI.

// @host            localhost:8080
// @BasePath        /user

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	// Load configuration
	cfg := config.LoadServer()
	log.Println("Configuration loaded")

	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refresh token families
	var families cache.RefreshTokenStore
	switch cfg.RefreshStore {
	case "redis":
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURI)
		if err != nil {
			log.Fatalf("Failed to connect refresh token store: %v", err)
		}
		defer func() { _ = redisCache.Close() }()
		families = cache.NewRefreshTokenStore(redisCache)
		log.Println("Using Redis refresh token store")
	default:
		families = cache.NewRefreshTokenStore(cache.NewMemory(nil))
		log.Println("Using in-memory refresh token store")
	}

	// Image storage; nil falls back to memory inside the server
	var images storage.Storage
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			log.Fatalf("Failed to configure S3 storage: %v", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			log.Fatalf("Failed to prepare S3 bucket: %v", err)
		}
		images = s3Client
	} else {
		log.Println("Using in-memory image storage")
	}

	server := mockapi.New(mockapi.Config{
		Issuer:     auth.NewIssuer(cfg.AccessTokenSecret, cfg.AccessTokenExpiry, nil),
		Families:   families,
		Images:     images,
		RefreshTTL: cfg.RefreshTokenExpiry,
	})

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Fake blog API listening on %s%s", addr, mockapi.DefaultBasePath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
