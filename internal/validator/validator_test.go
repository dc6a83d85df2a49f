package validator

import (
	"bytes"
	"testing"

	apperrors "blog-client/internal/errors"
	"blog-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		password   string
		valid      bool
	}{
		{"email", "ann@example.com", "x", true},
		{"plain phone", "5551234567", "x", true},
		{"formatted phone", "(555) 123-4567", "x", true},
		{"email with spaces around", "  ann@example.com ", "x", true},
		{"short phone", "555123456", "x", false},
		{"letters", "annexample", "x", false},
		{"missing domain dot", "ann@example", "x", false},
		{"empty identifier", "", "x", false},
		{"empty password", "ann@example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Login(&models.LoginRequest{Identifier: tt.identifier, Password: tt.password})

			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			}
		})
	}
}

func validRegister() models.RegisterRequest {
	return models.RegisterRequest{
		FirstName:       "Ann",
		LastName:        "Lee",
		Email:           "ann@example.com",
		Phone:           "5551234567",
		DateOfBirth:     "1990-04-01",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
		Preferences:     []string{"technology"},
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		wantErr error
	}{
		{"valid", func(r *models.RegisterRequest) {}, nil},
		{"short first name", func(r *models.RegisterRequest) { r.FirstName = "A" }, apperrors.ErrValidation},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "nope" }, apperrors.ErrValidation},
		{"formatted phone rejected", func(r *models.RegisterRequest) { r.Phone = "555-123-4567" }, apperrors.ErrValidation},
		{"bad date", func(r *models.RegisterRequest) { r.DateOfBirth = "01/04/1990" }, apperrors.ErrValidation},
		{"weak password", func(r *models.RegisterRequest) {
			r.Password, r.ConfirmPassword = "password", "password"
		}, apperrors.ErrValidation},
		{"no preferences", func(r *models.RegisterRequest) { r.Preferences = nil }, apperrors.ErrValidation},
		{"unknown preference", func(r *models.RegisterRequest) { r.Preferences = []string{"knitting"} }, apperrors.ErrValidation},
		{"mismatched confirmation", func(r *models.RegisterRequest) { r.ConfirmPassword = "Other!pass1" }, apperrors.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)

			err := Register(&req)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"Aa1@aaaa", true},
		{"Aa1@aaa", false},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!!", false},
		{"NoSpecial11", false},
		{"Hash#Sign1", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			req := validRegister()
			req.Password, req.ConfirmPassword = tt.password, tt.password

			assert.Equal(t, tt.valid, Register(&req) == nil)
		})
	}
}

func TestStruct_ArticleRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := Struct(&models.ArticleRequest{
			Title:       "Why Go?",
			Description: "A short tour of the language",
			Category:    "technology",
			Tags:        []string{"go"},
		})

		assert.NoError(t, err)
	})

	t.Run("message names the failure", func(t *testing.T) {
		err := Struct(&models.ArticleRequest{Title: "Go", Description: "too short", Category: "knitting"})

		require.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), `"knitting" is not a known category`)
		assert.Contains(t, err.Error(), "Title must have at least 3")
	})
}

func TestStruct_UpdateProfileRequest(t *testing.T) {
	short := "A"
	phone := "5551234567"

	assert.ErrorIs(t, Struct(&models.UpdateProfileRequest{FirstName: &short}), apperrors.ErrValidation)
	assert.NoError(t, Struct(&models.UpdateProfileRequest{Phone: &phone}))
	assert.NoError(t, Struct(&models.UpdateProfileRequest{}))
}

func TestImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	tests := []struct {
		name        string
		data        []byte
		contentType string
		wantErr     error
	}{
		{"declared png", png, "image/png", nil},
		{"declared jpeg with params", png, "image/jpeg; charset=binary", nil},
		{"sniffed png", png, "", nil},
		{"declared pdf", png, "application/pdf", apperrors.ErrInvalidImageType},
		{"sniffed text", []byte("hello"), "", apperrors.ErrInvalidImageType},
		{"too large", bytes.Repeat([]byte{0}, MaxImageSize+1), "image/png", apperrors.ErrImageTooLarge},
		{"exactly max", bytes.Repeat([]byte{0}, MaxImageSize), "image/gif", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Image(tt.data, tt.contentType)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
