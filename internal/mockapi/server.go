// Package mockapi is an in-memory gin implementation of the blog REST API,
// used by end-to-end tests and the mockapi command.
package mockapi

import (
	"net/http"
	"sync"
	"time"

	"blog-client/internal/cache"
	"blog-client/internal/middleware"
	"blog-client/internal/storage"
	"blog-client/internal/validator"
	"blog-client/pkg/auth"
	_ "blog-client/swagger" // Import generated swagger docs

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// DefaultBasePath is the route group every endpoint lives under.
const DefaultBasePath = "/user"

var bindOnce sync.Once

// Config holds the dependencies of a Server.
type Config struct {
	// Issuer signs access tokens. Required.
	Issuer auth.TokenIssuer
	// Families keeps refresh-token families. Defaults to an in-memory store.
	Families cache.RefreshTokenStore
	// Images stores uploads. Defaults to an in-memory store served under BasePath/uploads.
	Images       storage.Storage
	RefreshTTL   time.Duration
	PasswordCost int
	BasePath     string
	Now          func() time.Time
}

// Server wires the fake API together.
type Server struct {
	basePath string
	store    *Store
	auth     *AuthService
	articles *ArticleService
	handler  *Handler
	uploads  ObjectReader
}

// New creates a Server.
func New(cfg Config) *Server {
	bindOnce.Do(validator.RegisterCustomValidators)

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}

	images := cfg.Images
	var uploads ObjectReader
	if images == nil {
		mem := storage.NewMemory(basePath + "/uploads")
		images, uploads = mem, mem
	} else if r, ok := images.(ObjectReader); ok {
		uploads = r
	}

	store := NewStore(cfg.Now)
	authService := NewAuthService(AuthServiceConfig{
		Store:      store,
		Issuer:     cfg.Issuer,
		Hasher:     auth.NewPasswordHasher(cfg.PasswordCost),
		Families:   cfg.Families,
		RefreshTTL: cfg.RefreshTTL,
		Now:        cfg.Now,
	})
	articleService := NewArticleService(store)

	return &Server{
		basePath: basePath,
		store:    store,
		auth:     authService,
		articles: articleService,
		handler:  NewHandler(authService, articleService, images),
		uploads:  uploads,
	}
}

// Router creates and configures the Gin router.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(s.basePath)
	{
		// public
		api.POST("/register", s.handler.Register)
		api.POST("/login", s.handler.Login)
		api.POST("/refresh-token", s.handler.Refresh)
		if s.uploads != nil {
			api.GET("/uploads/*key", ServeUpload(s.uploads))
		}

		protected := api.Group("")
		protected.Use(middleware.Auth(s.auth))
		{
			protected.GET("/profile", s.handler.Profile)
			protected.PUT("/update_profile", s.handler.UpdateProfile)

			protected.GET("/articles", s.handler.ListArticles)
			protected.POST("/articles", s.handler.CreateArticle)
			protected.GET("/articles/user", s.handler.UserArticles)
			protected.GET("/articles/:id", s.handler.GetArticle)
			protected.DELETE("/articles/:id", s.handler.DeleteArticle)
			protected.POST("/articles/:id/like", s.handler.Like)
			protected.POST("/articles/:id/dislike", s.handler.Dislike)
			protected.POST("/articles/:id/block", s.handler.Block)
		}
	}

	return r
}

// Store exposes the server state to tests and seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Auth exposes the auth service for refresh counters and fault injection.
func (s *Server) Auth() *AuthService {
	return s.auth
}

// Articles exposes the article service.
func (s *Server) Articles() *ArticleService {
	return s.articles
}
