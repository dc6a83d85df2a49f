package tokenstore

import (
	"context"
	"fmt"
)

// Backend selects a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Options configure Open.
type Options struct {
	Backend   Backend
	FilePath  string
	RedisURI  string
	Namespace string
}

// Open builds the Store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		if opts.FilePath == "" {
			return nil, fmt.Errorf("file token store requires a path")
		}
		return NewFile(opts.FilePath), nil
	case BackendRedis:
		return NewRedis(ctx, opts.RedisURI, opts.Namespace)
	default:
		return nil, fmt.Errorf("unknown token store backend %q", opts.Backend)
	}
}
