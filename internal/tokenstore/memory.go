package tokenstore

import (
	"context"
	"sync"

	"blog-client/internal/models"
)

// Memory is a process-local Store.
type Memory struct {
	mu     sync.RWMutex
	tokens models.TokenPair
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context, kind Kind) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pick(m.tokens, kind), nil
}

func (m *Memory) Set(_ context.Context, kind Kind, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = assign(m.tokens, kind, token)
	return nil
}

func (m *Memory) SetPair(_ context.Context, pair models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = pair
	return nil
}

func (m *Memory) Clear(ctx context.Context, kind Kind) error {
	return m.Set(ctx, kind, "")
}

func (m *Memory) ClearAll(ctx context.Context) error {
	return m.SetPair(ctx, models.TokenPair{})
}

func pick(pair models.TokenPair, kind Kind) string {
	if kind == Refresh {
		return pair.RefreshToken
	}
	return pair.AccessToken
}

func assign(pair models.TokenPair, kind Kind, token string) models.TokenPair {
	if kind == Refresh {
		pair.RefreshToken = token
	} else {
		pair.AccessToken = token
	}
	return pair
}
