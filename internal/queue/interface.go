package queue

import "context"

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks blog-client/internal/queue Sink

// Queue defines the interface for notice queue operations.
type Queue interface {
	// Enqueue adds a notice to the queue.
	Enqueue(n Notice) error
	// Dequeue removes and returns the next notice from the queue.
	Dequeue(ctx context.Context) (Notice, error)
	// Drain removes and returns every pending notice without blocking.
	Drain() []Notice
	// Close closes the queue.
	Close()
	// Len returns the current number of notices in the queue.
	Len() int
	// Capacity returns the queue capacity.
	Capacity() int
}

// Sink shows a notice to the user.
type Sink interface {
	Show(ctx context.Context, n Notice) error
}

// Ensure MemoryQueue implements Queue interface
var _ Queue = (*MemoryQueue)(nil)
