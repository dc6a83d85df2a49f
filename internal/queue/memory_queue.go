// Package queue buffers transient user-facing notices and delivers them to a sink.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short message shown to the user and then dismissed.
type Notice struct {
	Level   Level
	Message string
	At      time.Time
	// Attempts counts failed deliveries.
	Attempts int
}

// String renders the notice for a terminal.
func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}

// NewNotice stamps a notice with the current time.
func NewNotice(level Level, message string) Notice {
	return Notice{Level: level, Message: message, At: time.Now()}
}

// MemoryQueue is a bounded in-memory notice queue.
type MemoryQueue struct {
	notices  chan Notice
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryQueue creates a new in-memory queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		notices:  make(chan Notice, capacity),
		capacity: capacity,
	}
}

// Enqueue adds a notice without blocking. Returns error if queue is full or closed.
// Lock is held during the entire operation to prevent race condition with Close().
func (q *MemoryQueue) Enqueue(n Notice) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	if n.At.IsZero() {
		n.At = time.Now()
	}

	select {
	case q.notices <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue returns the next notice, blocking until one is available.
// Returns error if context is cancelled or queue is closed.
func (q *MemoryQueue) Dequeue(ctx context.Context) (Notice, error) {
	q.mu.RLock()
	notices := q.notices
	q.mu.RUnlock()

	select {
	case <-ctx.Done():
		return Notice{}, ctx.Err()
	case n, ok := <-notices:
		if !ok {
			return Notice{}, ErrQueueClosed
		}
		return n, nil
	}
}

// Drain returns all pending notices in FIFO order.
func (q *MemoryQueue) Drain() []Notice {
	q.mu.RLock()
	notices := q.notices
	q.mu.RUnlock()

	var out []Notice
	for {
		select {
		case n, ok := <-notices:
			if !ok {
				return out
			}
			out = append(out, n)
		default:
			return out
		}
	}
}

// Close closes the queue. No more notices can be enqueued after closing.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.notices)
	}
}

// Reset resets the queue to a fresh state. This is primarily for testing.
func (q *MemoryQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = false
	q.notices = make(chan Notice, q.capacity)
}

// Len returns the current number of notices in the queue.
func (q *MemoryQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.notices)
}

// Capacity returns the queue capacity.
func (q *MemoryQueue) Capacity() int {
	return q.capacity
}
