// Package models defines data structures exchanged with the blog API.
package models

import (
	"encoding/json"
	"slices"
)

// User represents an account holder as returned by the API.
type User struct {
	ID          string   `json:"id" example:"507f1f77bcf86cd799439011"`
	FirstName   string   `json:"firstName" example:"Ann"`
	LastName    string   `json:"lastName" example:"Lee"`
	Email       string   `json:"email" example:"ann@example.com"`
	Phone       string   `json:"phone,omitempty" example:"5551234567"`
	DateOfBirth string   `json:"dateOfBirth,omitempty" example:"1990-04-12"`
	Preferences []string `json:"preferences" example:"technology,space"`
	Image       string   `json:"image,omitempty" example:"/uploads/ann.png"`
}

// UnmarshalJSON accepts both "id" and the legacy "_id" key.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		LegacyID string `json:"_id"`
	}{plain: (*plain)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.LegacyID
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Preferences = slices.Clone(u.Preferences)
	return &c
}

// Prefers reports whether category is among the user's preferences.
func (u *User) Prefers(category string) bool {
	return u != nil && slices.Contains(u.Preferences, category)
}

// UserRef is the author summary embedded in an article.
type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image,omitempty"`
}

// UnmarshalJSON accepts both "id" and the legacy "_id" key.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	aux := struct {
		*plain
		LegacyID string `json:"_id"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.LegacyID
	}
	return nil
}

// UpdateProfileRequest is the payload for PUT /update_profile.
type UpdateProfileRequest struct {
	FirstName   *string  `json:"firstName,omitempty" validate:"omitempty,min=2"`
	LastName    *string  `json:"lastName,omitempty" validate:"omitempty,min=2"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string  `json:"phone,omitempty" validate:"omitempty,phone10"`
	Preferences []string `json:"preferences,omitempty" validate:"omitempty,min=1,dive,category"`
}
