package mockapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/middleware"
	"blog-client/internal/models"
	"blog-client/internal/storage"
	"blog-client/internal/validator"
	"blog-client/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const imageURLExpiry = 7 * 24 * time.Hour

// ObjectReader serves stored uploads back to clients.
type ObjectReader interface {
	Get(key string) (storage.Object, error)
}

// Handler handles HTTP requests for the fake blog API.
type Handler struct {
	auth     *AuthService
	articles *ArticleService
	images   storage.Storage
}

// NewHandler creates a new Handler.
func NewHandler(auth *AuthService, articles *ArticleService, images storage.Storage) *Handler {
	return &Handler{auth: auth, articles: articles, images: images}
}

// Register godoc
// @Summary      Register a new user
// @Description  Create an account from multipart form fields and an optional profile image, and sign it in
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        firstName    formData  string  true   "First name"
// @Param        lastName     formData  string  true   "Last name"
// @Param        email        formData  string  true   "Email address"
// @Param        phone        formData  string  true   "10-digit phone number"
// @Param        dateOfBirth  formData  string  true   "Date of birth (YYYY-MM-DD)"
// @Param        password     formData  string  true   "Password"
// @Param        preferences  formData  string  true   "JSON array of categories"
// @Param        image        formData  file    false  "Profile image (JPEG, PNG or GIF, max 5MB)"
// @Success      201          {object}  response.Response{data=models.AuthResponse}
// @Failure      400          {object}  response.Response
// @Failure      409          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Router       /register [post]
func (h *Handler) Register(c *gin.Context) {
	var prefs []string
	if raw := c.PostForm("preferences"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			response.BadRequest(c, "preferences must be a JSON array")
			return
		}
	}

	req := models.RegisterRequest{
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		DateOfBirth: c.PostForm("dateOfBirth"),
		Password:    c.PostForm("password"),
		Preferences: prefs,
	}
	req.ConfirmPassword = req.Password

	if err := validator.Register(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, err := h.upload(c, "users")
	if err != nil {
		h.uploadError(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), &req, image)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with an email address or phone number and return a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.LoginRequest  true  "User credentials"
// @Success      200      {object}  response.Response{data=models.AuthResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new token pair. Refresh tokens are single-use; presenting a used one revokes its family
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  response.Response{data=models.TokenPair}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /refresh-token [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req models.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRefreshToken) || errors.Is(err, apperrors.ErrRefreshTokenReused) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Success(c, result)
}

// Profile godoc
// @Summary      Get current user
// @Description  Return the profile of the signed-in user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=models.User}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile [get]
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.userError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile godoc
// @Summary      Update current user
// @Description  Apply a partial profile update; omitted fields are left unchanged
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=models.User}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /update_profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		h.userError(c, err)
		return
	}
	response.Success(c, user)
}

// ListArticles godoc
// @Summary      List articles
// @Description  Return one page of the feed, newest first, skipping deleted articles and those the caller blocked
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        page      query     int     false  "Page number"     default(1)
// @Param        limit     query     int     false  "Items per page"  default(10)
// @Param        category  query     string  false  "Category, or all"
// @Param        search    query     string  false  "Match title, description or tags"
// @Success      200       {object}  response.Response{data=models.ArticlePage}
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Router       /articles [get]
func (h *Handler) ListArticles(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.articles.List(c.Request.Context(), models.ListArticlesParams{
		Page:     page,
		Limit:    limit,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}))
}

// GetArticle godoc
// @Summary      Get article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response{data=models.Article}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /articles/{id} [get]
func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.articleError(c, err)
		return
	}
	response.Success(c, article)
}

// CreateArticle godoc
// @Summary      Publish article
// @Description  Publish an article from multipart form fields and an optional cover image
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  true   "Body"
// @Param        category     formData  string  true   "Category"
// @Param        tags         formData  string  false  "JSON array of tags"
// @Param        image        formData  file    false  "Cover image (JPEG, PNG or GIF, max 5MB)"
// @Success      201          {object}  response.Response{data=models.Article}
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Router       /articles [post]
func (h *Handler) CreateArticle(c *gin.Context) {
	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			response.BadRequest(c, "tags must be a JSON array")
			return
		}
	}

	req := models.ArticleRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tags:        tags,
	}
	if err := validator.Struct(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, err := h.upload(c, "articles")
	if err != nil {
		h.uploadError(c, err)
		return
	}

	article, err := h.articles.Create(c.Request.Context(), middleware.GetUserID(c), &req, image)
	if err != nil {
		h.articleError(c, err)
		return
	}
	response.Created(c, article)
}

// DeleteArticle godoc
// @Summary      Delete article
// @Description  Soft-delete one of the caller's articles
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /articles/{id} [delete]
func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		h.articleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

// UserArticles godoc
// @Summary      List own articles
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]models.Article}
// @Failure      401  {object}  response.Response
// @Router       /articles/user [get]
func (h *Handler) UserArticles(c *gin.Context) {
	response.Success(c, h.articles.ByAuthor(c.Request.Context(), middleware.GetUserID(c)))
}

// Like godoc
// @Summary      Toggle like
// @Description  Like an article, or take a like back. Liking clears a dislike
// @Tags         reactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response{data=models.ReactionResult}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /articles/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	result, err := h.articles.Like(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.articleError(c, err)
		return
	}
	response.Success(c, result)
}

// Dislike godoc
// @Summary      Toggle dislike
// @Description  Dislike an article, or take a dislike back. Disliking clears a like
// @Tags         reactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response{data=models.ReactionResult}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /articles/{id}/dislike [post]
func (h *Handler) Dislike(c *gin.Context) {
	result, err := h.articles.Dislike(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.articleError(c, err)
		return
	}
	response.Success(c, result)
}

// Block godoc
// @Summary      Toggle block
// @Description  Hide an article from the caller's feed, or show it again
// @Tags         reactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  response.Response{data=models.Article}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /articles/{id}/block [post]
func (h *Handler) Block(c *gin.Context) {
	article, err := h.articles.ToggleBlock(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.articleError(c, err)
		return
	}
	response.Success(c, article)
}

// ServeUpload streams an object kept by an in-memory image store.
func ServeUpload(objects ObjectReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		obj, err := objects.Get(key)
		if err != nil {
			response.NotFound(c, "upload not found")
			return
		}
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	}
}

// upload stores the optional "image" file and returns its URL.
// An absent file yields an empty URL.
func (h *Handler) upload(c *gin.Context, folder string) (string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if h.images == nil {
		return "", errors.New("image storage is not configured")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, validator.MaxImageSize+1))
	if err != nil {
		return "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if err := validator.Image(data, contentType); err != nil {
		return "", err
	}

	ctx := c.Request.Context()
	key := folder + "/" + uuid.NewString() + strings.ToLower(path.Ext(fh.Filename))
	if err := h.images.PutObject(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return h.images.GetPresignedURL(ctx, key, imageURLExpiry)
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		response.BadRequest(c, err.Error())
		return
	}
	response.InternalError(c)
}

func (h *Handler) userError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c)
	}
}

func (h *Handler) articleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrArticleNotFound), errors.Is(err, apperrors.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperrors.ErrArticleForbidden):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c)
	}
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return n, nil
}
