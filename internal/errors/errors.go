// Package errors provides custom error types for the application.
package errors

import "errors"

// Session errors
var (
	ErrNoSession        = errors.New("no session: sign in required")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRefreshFailed    = errors.New("token refresh failed")
)

// Transport errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrBadRequest       = errors.New("bad request")
	ErrServer           = errors.New("server error")
	ErrNetwork          = errors.New("network error")
	ErrInvalidResponse  = errors.New("invalid response from server")
	ErrResponseTooLarge = errors.New("response too large")
)

// Validation errors
var (
	ErrValidation       = errors.New("validation failed")
	ErrImageTooLarge    = errors.New("image must be less than 5MB")
	ErrInvalidImageType = errors.New("please upload a valid image file")
	ErrPasswordMismatch = errors.New("passwords must match")
)

// Fake API errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReused  = errors.New("refresh token reuse detected")
	ErrArticleNotFound     = errors.New("article not found")
	ErrArticleForbidden    = errors.New("you can only modify your own articles")
)
