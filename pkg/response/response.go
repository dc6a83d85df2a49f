// Package response provides the standard API envelope for both sides of the wire.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrMalformed is returned by Parse for bodies that are not JSON.
var ErrMalformed = errors.New("malformed response body")

// Envelope is Response as seen by a client, with the payload left undecoded.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorMessage returns the server's explanation, preferring "error" over "message".
func (e *Envelope) ErrorMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// Unwrap decodes Data into out. A nil out or an empty payload is a no-op.
func (e *Envelope) Unwrap(out interface{}) error {
	if out == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	return json.Unmarshal(e.Data, out)
}

// Parse decodes a raw body into an Envelope. Bodies that are not an envelope
// (a bare JSON value) are treated as the payload itself.
func Parse(body []byte) (*Envelope, error) {
	if len(body) == 0 {
		return &Envelope{Success: true}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err == nil {
		_, hasSuccess := probe["success"]
		_, hasData := probe["data"]
		if hasSuccess || hasData {
			var env Envelope
			if err := json.Unmarshal(body, &env); err != nil {
				return nil, err
			}
			if !hasSuccess {
				env.Success = true
			}
			return &env, nil
		}
	}

	if !json.Valid(body) {
		return nil, ErrMalformed
	}
	return &Envelope{Success: true, Data: json.RawMessage(body)}, nil
}

// Success sends a successful response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// NoContent sends a 204 No Content response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
