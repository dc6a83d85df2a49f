package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	// MaxAttempts is the number of deliveries tried before a notice is dropped.
	MaxAttempts = 3
	// RetryDelay is the base delay between deliveries (exponential backoff).
	RetryDelay = 200 * time.Millisecond
)

// Dispatcher delivers queued notices to a sink.
type Dispatcher struct {
	queue        *MemoryQueue
	sink         Sink
	workerCount  int
	retryDelay   time.Duration
	logger       *slog.Logger
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewDispatcher creates a dispatcher. A nil logger defaults to slog.Default().
func NewDispatcher(queue *MemoryQueue, sink Sink, workerCount int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return &Dispatcher{
		queue:       queue,
		sink:        sink,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		logger:      logger,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins delivering notices with the configured number of workers.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	d.logger.Debug("notice dispatcher started", "workers", d.workerCount)
}

// Stop closes the queue and waits for workers to deliver what is left.
func (d *Dispatcher) Stop() {
	d.shutdownOnce.Do(func() {
		close(d.shutdownCh)
		d.queue.Close()
	})
	d.wg.Wait()
	d.logger.Debug("notice dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		n, err := d.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				d.logger.Debug("notice worker shutting down", "worker", id)
				return
			}
			continue
		}
		d.deliver(ctx, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notice) {
	if err := d.sink.Show(ctx, n); err != nil {
		d.logger.Warn("failed to show notice", "level", n.Level, "attempt", n.Attempts+1, "error", err)
		d.handleFailure(n)
	}
}

func (d *Dispatcher) handleFailure(n Notice) {
	n.Attempts++

	if n.Attempts >= MaxAttempts {
		d.logger.Error("dropping notice after repeated failures", "level", n.Level, "attempts", n.Attempts)
		return
	}

	delay := d.retryDelay * time.Duration(1<<uint(n.Attempts-1))

	// Waits on shutdownCh instead of ctx so Stop does not leave retries hanging.
	go func() {
		select {
		case <-d.shutdownCh:
			d.logger.Debug("shutdown during notice retry, dropping", "level", n.Level)
		case <-time.After(delay):
			if err := d.queue.Enqueue(n); err != nil {
				d.logger.Warn("failed to re-enqueue notice", "error", err)
			}
		}
	}()
}
