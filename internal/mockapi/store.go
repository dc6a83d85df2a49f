package mockapi

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"

	"github.com/google/uuid"
)

type account struct {
	user         models.User
	passwordHash string
}

// Store is the in-memory state behind the fake API.
// Every read returns a copy.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	accounts map[string]*account
	byEmail  map[string]string
	byPhone  map[string]string
	articles []*models.Article
}

// NewStore creates an empty store. A nil clock defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		now:      now,
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		byPhone:  make(map[string]string),
	}
}

// CreateUser adds an account. Email and phone must be unused.
func (s *Store) CreateUser(user models.User, passwordHash string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if user.Phone != "" {
		if _, taken := s.byPhone[user.Phone]; taken {
			return nil, apperrors.ErrUserAlreadyExists
		}
	}

	user.ID = uuid.NewString()
	user.Email = email
	s.accounts[user.ID] = &account{user: *user.Clone(), passwordHash: passwordHash}
	s.byEmail[email] = user.ID
	if user.Phone != "" {
		s.byPhone[user.Phone] = user.ID
	}
	return user.Clone(), nil
}

// FindByIdentifier looks an account up by email or normalised phone number.
func (s *Store) FindByIdentifier(identifier string) (*models.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(identifier)]
	if !ok {
		id, ok = s.byPhone[normalizePhone(identifier)]
	}
	if !ok {
		return nil, "", apperrors.ErrUserNotFound
	}
	acc := s.accounts[id]
	return acc.user.Clone(), acc.passwordHash, nil
}

// User returns the account with id.
func (s *Store) User(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return acc.user.Clone(), nil
}

// UpdateUser applies the non-nil fields of req to account id.
func (s *Store) UpdateUser(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := &acc.user

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if owner, taken := s.byEmail[email]; taken && owner != id {
			return nil, apperrors.ErrUserAlreadyExists
		}
		delete(s.byEmail, u.Email)
		s.byEmail[email] = id
		u.Email = email
	}
	if req.Phone != nil {
		if owner, taken := s.byPhone[*req.Phone]; taken && owner != id {
			return nil, apperrors.ErrUserAlreadyExists
		}
		delete(s.byPhone, u.Phone)
		s.byPhone[*req.Phone] = id
		u.Phone = *req.Phone
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Preferences != nil {
		u.Preferences = slices.Clone(req.Preferences)
	}
	return u.Clone(), nil
}

// AddArticle stores a new article authored by authorID.
func (s *Store) AddArticle(authorID string, article models.Article) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[authorID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	article.ID = uuid.NewString()
	article.Author = models.UserRef{
		ID:        acc.user.ID,
		FirstName: acc.user.FirstName,
		LastName:  acc.user.LastName,
		Image:     acc.user.Image,
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = s.now().UTC()
	}
	article.Likes = nonNil(article.Likes)
	article.Dislikes = nonNil(article.Dislikes)
	article.Blocks = nonNil(article.Blocks)
	article.Tags = nonNil(article.Tags)

	stored := article.Clone()
	s.articles = append(s.articles, &stored)
	// newest first; stable keeps insertion order for equal timestamps
	sort.SliceStable(s.articles, func(i, j int) bool {
		return s.articles[i].CreatedAt.After(s.articles[j].CreatedAt)
	})
	return &article, nil
}

// Articles returns every article matching keep, newest first.
func (s *Store) Articles(keep func(*models.Article) bool) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Article returns a live article.
func (s *Store) Article(id string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := s.find(id)
	if err != nil {
		return nil, err
	}
	c := a.Clone()
	return &c, nil
}

// MutateArticle runs fn on a live article under the write lock and returns
// a copy of the result.
func (s *Store) MutateArticle(id string, fn func(*models.Article) error) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	c := a.Clone()
	return &c, nil
}

func (s *Store) find(id string) (*models.Article, error) {
	for _, a := range s.articles {
		if a.ID == id && !a.Deleted {
			return a, nil
		}
	}
	return nil, apperrors.ErrArticleNotFound
}

func normalizePhone(v string) string {
	return strings.NewReplacer("-", "", "(", "", ")", "", " ", "").Replace(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
