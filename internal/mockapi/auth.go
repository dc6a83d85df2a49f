package mockapi

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"blog-client/internal/cache"
	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"
	"blog-client/pkg/auth"
)

// AuthService implements registration, login and refresh-token rotation.
type AuthService struct {
	store      *Store
	issuer     auth.TokenIssuer
	hasher     *auth.PasswordHasher
	generator  auth.RefreshTokenGenerator
	families   cache.RefreshTokenStore
	refreshTTL time.Duration
	now        func() time.Time

	refreshes   atomic.Int64
	failRefresh atomic.Bool
}

// AuthServiceConfig holds the dependencies of AuthService.
type AuthServiceConfig struct {
	Store      *Store
	Issuer     auth.TokenIssuer
	Hasher     *auth.PasswordHasher
	Generator  auth.RefreshTokenGenerator
	Families   cache.RefreshTokenStore
	RefreshTTL time.Duration
	Now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	s := &AuthService{
		store:      cfg.Store,
		issuer:     cfg.Issuer,
		hasher:     cfg.Hasher,
		generator:  cfg.Generator,
		families:   cfg.Families,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.hasher == nil {
		s.hasher = auth.NewPasswordHasher(0)
	}
	if s.generator == nil {
		s.generator = auth.NewRefreshTokenGenerator()
	}
	if s.families == nil {
		s.families = cache.NewRefreshTokenStore(cache.NewMemory(s.now))
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = 7 * 24 * time.Hour
	}
	return s
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest, image string) (*models.AuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Preferences: req.Preferences,
		Image:       image,
	}, hash)
	if err != nil {
		return nil, err
	}

	return s.signIn(ctx, user)
}

// Login checks credentials. Unknown users and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, hash, err := s.store.FindByIdentifier(req.Identifier)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.hasher.Check(req.Password, hash); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.signIn(ctx, user)
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	access, _, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	refresh, familyID, err := s.generator.Generate()
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.families.Create(ctx, familyID, &cache.RefreshTokenData{
		UserID:           user.ID,
		CurrentTokenHash: s.generator.Hash(refresh),
		ExpiresAt:        now.Add(s.refreshTTL),
		CreatedAt:        now,
	}, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token family: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. Presenting the token
// that was just rotated out revokes the whole family.
func (s *AuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.TokenPair, error) {
	s.refreshes.Add(1)
	if s.failRefresh.Load() {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	familyID, err := s.generator.ExtractFamilyID(req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	stored, err := s.families.Get(ctx, familyID)
	if err != nil || stored == nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if !s.now().Before(stored.ExpiresAt) {
		_ = s.families.Delete(ctx, familyID)
		return nil, apperrors.ErrInvalidRefreshToken
	}

	incoming := s.generator.Hash(req.RefreshToken)
	switch {
	case s.generator.CompareHashes(incoming, stored.CurrentTokenHash):
		return s.rotate(ctx, familyID, stored, incoming)
	case stored.PreviousTokenHash != "" && s.generator.CompareHashes(incoming, stored.PreviousTokenHash):
		_ = s.families.Delete(ctx, familyID)
		return nil, apperrors.ErrRefreshTokenReused
	default:
		return nil, apperrors.ErrInvalidRefreshToken
	}
}

func (s *AuthService) rotate(ctx context.Context, familyID string, stored *cache.RefreshTokenData, currentHash string) (*models.TokenPair, error) {
	next, err := s.generator.GenerateWithFamily(familyID)
	if err != nil {
		return nil, err
	}

	access, _, err := s.issuer.Issue(stored.UserID)
	if err != nil {
		return nil, err
	}

	ttl := stored.ExpiresAt.Sub(s.now())
	if err := s.families.Rotate(ctx, familyID, currentHash, s.generator.Hash(next), ttl); err != nil {
		// Lost a race with another exchange of the same token.
		if errors.Is(err, cache.ErrStaleRotation) || errors.Is(err, cache.ErrFamilyNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// Authenticate returns the user id carried by a valid access token.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Profile returns the user's profile.
func (s *AuthService) Profile(_ context.Context, userID string) (*models.User, error) {
	return s.store.User(userID)
}

// UpdateProfile applies a partial update.
func (s *AuthService) UpdateProfile(_ context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	return s.store.UpdateUser(userID, req)
}

// RefreshCount is the number of refresh exchanges attempted so far.
func (s *AuthService) RefreshCount() int {
	return int(s.refreshes.Load())
}

// FailRefresh makes every subsequent exchange fail while on is true.
func (s *AuthService) FailRefresh(on bool) {
	s.failRefresh.Store(on)
}
