package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"blog-client/internal/models"
)

// File is a Store backed by a JSON document on disk, so a session
// survives process restarts.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a file store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context, kind Kind) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pair, err := f.read()
	if err != nil {
		return "", err
	}
	return pick(pair, kind), nil
}

func (f *File) Set(_ context.Context, kind Kind, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pair, err := f.read()
	if err != nil {
		return err
	}
	return f.write(assign(pair, kind, token))
}

func (f *File) SetPair(_ context.Context, pair models.TokenPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(pair)
}

func (f *File) Clear(ctx context.Context, kind Kind) error {
	return f.Set(ctx, kind, "")
}

// ClearAll removes the backing file.
func (f *File) ClearAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

func (f *File) read() (models.TokenPair, error) {
	var pair models.TokenPair

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return pair, nil
	}
	if err != nil {
		return pair, fmt.Errorf("failed to read token file: %w", err)
	}
	if len(data) == 0 {
		return pair, nil
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to decode token file: %w", err)
	}
	return pair, nil
}

// write replaces the file atomically via a temp file and rename.
func (f *File) write(pair models.TokenPair) error {
	if pair == (models.TokenPair{}) {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set token file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}
