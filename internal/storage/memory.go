package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrObjectNotFound is returned for unknown keys.
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored upload.
type Object struct {
	Data        []byte
	ContentType string
}

// Memory keeps uploads in process and serves them under a URL prefix.
type Memory struct {
	prefix  string
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemory creates an empty store whose URLs start with prefix.
func NewMemory(prefix string) *Memory {
	return &Memory{
		prefix:  strings.TrimRight(prefix, "/"),
		objects: make(map[string]Object),
	}
}

// PutObject stores body under key, replacing any previous object.
func (m *Memory) PutObject(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: data, ContentType: contentType}
	return nil
}

// GetPresignedURL returns the path the object is served from. The expiry is ignored.
func (m *Memory) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return m.prefix + "/" + url.PathEscape(key), nil
}

// Get returns the object stored under key.
func (m *Memory) Get(key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}
