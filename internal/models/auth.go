package models

// LoginRequest is the payload for POST /login.
// Identifier is either an email address or a 10-digit phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,identifier" example:"ann@example.com"`
	Password   string `json:"password" validate:"required" example:"S3cret!pass"`
}

// RegisterRequest carries the profile fields sent as multipart form data to POST /register.
type RegisterRequest struct {
	FirstName       string   `validate:"required,min=2"`
	LastName        string   `validate:"required,min=2"`
	Email           string   `validate:"required,email"`
	Phone           string   `validate:"required,phone10"`
	DateOfBirth     string   `validate:"required,datetime=2006-01-02"`
	Password        string   `validate:"required,strongpassword"`
	ConfirmPassword string   `validate:"required"`
	Preferences     []string `validate:"min=1,dive,category"`
}

// TokenPair is an access token with its paired refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by login and registration.
// Registration may return the access token under the legacy "token" key.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Token        string `json:"token,omitempty"`
	User         User   `json:"user"`
}

// Pair normalises the legacy token field into a TokenPair.
func (r *AuthResponse) Pair() TokenPair {
	access := r.AccessToken
	if access == "" {
		access = r.Token
	}
	return TokenPair{AccessToken: access, RefreshToken: r.RefreshToken}
}

// RefreshRequest is the payload for POST /refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
