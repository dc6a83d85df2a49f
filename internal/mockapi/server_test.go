package mockapi

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"blog-client/internal/models"
	"blog-client/pkg/auth"
	"blog-client/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	*Server
	router *gin.Engine
	clock  *clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clk := &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	srv := New(Config{
		Issuer:       auth.NewIssuer("test-secret", 15*time.Minute, clk.Now),
		PasswordCost: bcrypt.MinCost,
		RefreshTTL:   24 * time.Hour,
		Now:          clk.Now,
	})
	return &testServer{Server: srv, router: srv.Router(), clock: clk}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (int, *response.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, DefaultBasePath+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (int, *response.Envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	env, err := response.Parse(w.Body.Bytes())
	require.NoError(t, err, "body: %s", w.Body.String())
	return w.Code, env
}

type signupForm struct {
	fields map[string]string
	image  []byte
	name   string
}

func defaultSignup(email, phone string) signupForm {
	return signupForm{fields: map[string]string{
		"firstName":   "Ann",
		"lastName":    "Lee",
		"email":       email,
		"phone":       phone,
		"dateOfBirth": "1990-04-12",
		"password":    "Secret1!x",
		"preferences": `["technology","space"]`,
	}}
}

func (s *testServer) register(t *testing.T, form signupForm) (int, *response.Envelope) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range form.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if form.image != nil {
		part, err := mw.CreateFormFile("image", form.name)
		require.NoError(t, err)
		_, err = part.Write(form.image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, DefaultBasePath+"/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.serve(t, req)
}

func (s *testServer) signUp(t *testing.T, email, phone string) models.AuthResponse {
	t.Helper()
	status, env := s.register(t, defaultSignup(email, phone))
	require.Equal(t, http.StatusCreated, status, env.ErrorMessage())

	var resp models.AuthResponse
	require.NoError(t, env.Unwrap(&resp))
	return resp
}

func (s *testServer) publish(t *testing.T, token, title, category string) models.Article {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("description", "A description long enough"))
	require.NoError(t, mw.WriteField("category", category))
	require.NoError(t, mw.WriteField("tags", `["go"]`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, DefaultBasePath+"/articles", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	status, env := s.serve(t, req)
	require.Equal(t, http.StatusCreated, status, env.ErrorMessage())

	var a models.Article
	require.NoError(t, env.Unwrap(&a))
	// distinct creation times keep ordering deterministic
	s.clock.Advance(time.Second)
	return a
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_Docs(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, DefaultBasePath, doc.BasePath)

	// Every API route is documented.
	for _, route := range s.router.Routes() {
		if !strings.HasPrefix(route.Path, DefaultBasePath+"/") || strings.Contains(route.Path, "/uploads/") {
			continue
		}
		p := strings.TrimPrefix(route.Path, DefaultBasePath)
		p = strings.ReplaceAll(p, ":id", "{id}")
		t.Run(route.Method+" "+p, func(t *testing.T) {
			require.Contains(t, doc.Paths, p)
			assert.Contains(t, doc.Paths[p], strings.ToLower(route.Method))
		})
	}
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, DefaultBasePath+"/articles", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Origin, Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestServer_Register(t *testing.T) {
	t.Run("returns a signed-in user", func(t *testing.T) {
		s := newTestServer(t)

		resp := s.signUp(t, "ann@example.com", "5551234567")

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.NotEmpty(t, resp.User.ID)
		assert.Equal(t, []string{"technology", "space"}, resp.User.Preferences)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		s := newTestServer(t)
		s.signUp(t, "ann@example.com", "5551234567")

		status, _ := s.register(t, defaultSignup("ANN@example.com", "5550000000"))

		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("stores the profile image", func(t *testing.T) {
		s := newTestServer(t)
		form := defaultSignup("img@example.com", "5551112222")
		form.image, form.name = pngBytes(t), "me.png"

		status, env := s.register(t, form)
		require.Equal(t, http.StatusCreated, status, env.ErrorMessage())
		var resp models.AuthResponse
		require.NoError(t, env.Unwrap(&resp))
		require.True(t, strings.HasPrefix(resp.User.Image, DefaultBasePath+"/uploads/users"), resp.User.Image)

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.User.Image, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	invalid := []struct {
		name  string
		field string
		value string
	}{
		{"weak password", "password", "password"},
		{"bad phone", "phone", "12345"},
		{"no preferences", "preferences", `[]`},
		{"unknown category", "preferences", `["cooking"]`},
		{"preferences not json", "preferences", `technology`},
		{"bad date", "dateOfBirth", "12/04/1990"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			form := defaultSignup("bad@example.com", "5559876543")
			form.fields[tt.field] = tt.value

			status, env := s.register(t, form)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
		})
	}

	t.Run("rejects non-image upload", func(t *testing.T) {
		s := newTestServer(t)
		form := defaultSignup("txt@example.com", "5553334444")
		form.image, form.name = []byte("plain text, not a picture"), "notes.txt"

		status, _ := s.register(t, form)

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_Login(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "ann@example.com", "5551234567")

	tests := []struct {
		name       string
		identifier string
		password   string
		wantStatus int
	}{
		{"email", "ann@example.com", "Secret1!x", http.StatusOK},
		{"formatted phone", "(555) 123-4567", "Secret1!x", http.StatusOK},
		{"wrong password", "ann@example.com", "Wrong1!xx", http.StatusUnauthorized},
		{"unknown user", "bob@example.com", "Secret1!x", http.StatusUnauthorized},
		{"invalid identifier", "not-an-email", "Secret1!x", http.StatusBadRequest},
		{"missing password", "ann@example.com", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := s.do(t, http.MethodPost, "/login",
				models.LoginRequest{Identifier: tt.identifier, Password: tt.password}, "")

			assert.Equal(t, tt.wantStatus, status, env.ErrorMessage())
			if tt.wantStatus == http.StatusOK {
				var resp models.AuthResponse
				require.NoError(t, env.Unwrap(&resp))
				assert.Equal(t, "ann@example.com", resp.User.Email)
			}
		})
	}
}

func TestServer_Refresh(t *testing.T) {
	exchange := func(t *testing.T, s *testServer, token string) (int, models.TokenPair) {
		t.Helper()
		status, env := s.do(t, http.MethodPost, "/refresh-token", models.RefreshRequest{RefreshToken: token}, "")
		var pair models.TokenPair
		if status == http.StatusOK {
			require.NoError(t, env.Unwrap(&pair))
		}
		return status, pair
	}

	t.Run("rotates the refresh token", func(t *testing.T) {
		s := newTestServer(t)
		signed := s.signUp(t, "ann@example.com", "5551234567")

		status, pair := exchange(t, s, signed.RefreshToken)

		require.Equal(t, http.StatusOK, status)
		assert.NotEqual(t, signed.RefreshToken, pair.RefreshToken)
		assert.NotEqual(t, signed.AccessToken, pair.AccessToken)
		assert.Equal(t, 1, s.Auth().RefreshCount())

		status, _ = exchange(t, s, pair.RefreshToken)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("reusing a rotated token revokes the family", func(t *testing.T) {
		s := newTestServer(t)
		signed := s.signUp(t, "ann@example.com", "5551234567")
		_, pair := exchange(t, s, signed.RefreshToken)

		status, _ := exchange(t, s, signed.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, _ = exchange(t, s, pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, status, "family was revoked")
	})

	t.Run("expired family", func(t *testing.T) {
		s := newTestServer(t)
		signed := s.signUp(t, "ann@example.com", "5551234567")
		s.clock.Advance(25 * time.Hour)

		status, _ := exchange(t, s, signed.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		s := newTestServer(t)

		status, _ := exchange(t, s, "rt_nope")

		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("missing token", func(t *testing.T) {
		s := newTestServer(t)

		status, _ := s.do(t, http.MethodPost, "/refresh-token", map[string]string{}, "")

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("fault injection", func(t *testing.T) {
		s := newTestServer(t)
		signed := s.signUp(t, "ann@example.com", "5551234567")
		s.Auth().FailRefresh(true)

		status, _ := exchange(t, s, signed.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, 1, s.Auth().RefreshCount())
	})
}

func TestServer_Auth(t *testing.T) {
	s := newTestServer(t)
	signed := s.signUp(t, "ann@example.com", "5551234567")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + signed.AccessToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + signed.AccessToken, http.StatusUnauthorized},
		{"no scheme", signed.AccessToken, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, DefaultBasePath+"/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			status, _ := s.serve(t, req)

			assert.Equal(t, tt.want, status)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		s.clock.Advance(16 * time.Minute)

		status, _ := s.do(t, http.MethodGet, "/profile", nil, signed.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestServer_UpdateProfile(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")
	s.signUp(t, "bob@example.com", "5557654321")

	t.Run("partial update keeps other fields", func(t *testing.T) {
		first := "Annie"
		status, env := s.do(t, http.MethodPut, "/update_profile",
			models.UpdateProfileRequest{FirstName: &first, Preferences: []string{"music"}}, ann.AccessToken)

		require.Equal(t, http.StatusOK, status, env.ErrorMessage())
		var user models.User
		require.NoError(t, env.Unwrap(&user))
		assert.Equal(t, "Annie", user.FirstName)
		assert.Equal(t, "Lee", user.LastName)
		assert.Equal(t, []string{"music"}, user.Preferences)
	})

	t.Run("taken email conflicts", func(t *testing.T) {
		email := "bob@example.com"

		status, _ := s.do(t, http.MethodPut, "/update_profile",
			models.UpdateProfileRequest{Email: &email}, ann.AccessToken)

		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("invalid phone", func(t *testing.T) {
		phone := "12"

		status, _ := s.do(t, http.MethodPut, "/update_profile",
			models.UpdateProfileRequest{Phone: &phone}, ann.AccessToken)

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_ListArticles(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")
	for i := 0; i < 5; i++ {
		s.publish(t, ann.AccessToken, "Tech post "+string(rune('A'+i)), "technology")
	}
	s.publish(t, ann.AccessToken, "Rocket launch", "space")

	list := func(t *testing.T, query string) models.ArticlePage {
		t.Helper()
		status, env := s.do(t, http.MethodGet, "/articles"+query, nil, ann.AccessToken)
		require.Equal(t, http.StatusOK, status, env.ErrorMessage())
		var page models.ArticlePage
		require.NoError(t, env.Unwrap(&page))
		return page
	}

	tests := []struct {
		name       string
		query      string
		wantCount  int
		wantMore   bool
		wantTotal  int
		firstTitle string
	}{
		{"first page newest first", "?page=1&limit=4", 4, true, 6, "Rocket launch"},
		{"last page", "?page=2&limit=4", 2, false, 6, "Tech post B"},
		{"past the end", "?page=3&limit=4", 0, false, 6, ""},
		{"category", "?category=technology&limit=10", 5, false, 5, "Tech post E"},
		{"all category", "?category=all&limit=10", 6, false, 6, "Rocket launch"},
		{"search is case-insensitive", "?search=ROCKET", 1, false, 1, "Rocket launch"},
		{"search by tag", "?search=go&limit=3", 3, true, 6, "Rocket launch"},
		{"defaults", "", 6, false, 6, "Rocket launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := list(t, tt.query)

			assert.Len(t, page.Articles, tt.wantCount)
			assert.Equal(t, tt.wantMore, page.HasMore)
			require.NotNil(t, page.Pagination)
			assert.Equal(t, tt.wantTotal, page.Pagination.TotalItems)
			if tt.firstTitle != "" {
				assert.Equal(t, tt.firstTitle, page.Articles[0].Title)
			}
		})
	}

	t.Run("bad page", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/articles?page=x", nil, ann.AccessToken)

		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestServer_Reactions(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")
	a := s.publish(t, ann.AccessToken, "Reactions", "technology")

	react := func(t *testing.T, kind string) models.ReactionResult {
		t.Helper()
		status, env := s.do(t, http.MethodPost, "/articles/"+a.ID+"/"+kind, nil, ann.AccessToken)
		require.Equal(t, http.StatusOK, status, env.ErrorMessage())
		var r models.ReactionResult
		require.NoError(t, env.Unwrap(&r))
		return r
	}
	uid := ann.User.ID

	r := react(t, "like")
	assert.True(t, r.IsLiked)
	assert.Equal(t, []string{uid}, r.Likes)

	r = react(t, "dislike")
	assert.False(t, r.IsLiked)
	assert.True(t, r.IsDisliked)
	assert.Empty(t, r.Likes, "dislike removes the like")
	assert.Equal(t, []string{uid}, r.Dislikes)

	r = react(t, "dislike")
	assert.False(t, r.IsDisliked)
	assert.Empty(t, r.Dislikes)
	assert.NotNil(t, r.Dislikes)

	t.Run("unknown article", func(t *testing.T) {
		status, _ := s.do(t, http.MethodPost, "/articles/missing/like", nil, ann.AccessToken)

		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestServer_Block(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")
	a := s.publish(t, ann.AccessToken, "Blockable", "technology")

	block := func(t *testing.T) models.Article {
		t.Helper()
		status, env := s.do(t, http.MethodPost, "/articles/"+a.ID+"/block", nil, ann.AccessToken)
		require.Equal(t, http.StatusOK, status)
		var got models.Article
		require.NoError(t, env.Unwrap(&got))
		return got
	}

	assert.True(t, block(t).BlockedBy(ann.User.ID))
	assert.False(t, block(t).BlockedBy(ann.User.ID))
}

func TestServer_DeleteArticle(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")
	bob := s.signUp(t, "bob@example.com", "5557654321")
	a := s.publish(t, ann.AccessToken, "Mine", "technology")

	status, _ := s.do(t, http.MethodDelete, "/articles/"+a.ID, nil, bob.AccessToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodDelete, "/articles/"+a.ID, nil, ann.AccessToken)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodGet, "/articles/"+a.ID, nil, ann.AccessToken)
	assert.Equal(t, http.StatusNotFound, status)

	_, env := s.do(t, http.MethodGet, "/articles/user", nil, ann.AccessToken)
	var mine []models.Article
	require.NoError(t, env.Unwrap(&mine))
	assert.Empty(t, mine)
}

func TestServer_CreateArticleValidation(t *testing.T) {
	s := newTestServer(t)
	ann := s.signUp(t, "ann@example.com", "5551234567")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "ok title"))
	require.NoError(t, mw.WriteField("description", "short"))
	require.NoError(t, mw.WriteField("category", "cooking"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, DefaultBasePath+"/articles", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ann.AccessToken)

	status, env := s.serve(t, req)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.ErrorMessage(), "validation failed")
}
