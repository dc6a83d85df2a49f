package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"blog-client/internal/queue"
	"blog-client/internal/queue/mocks"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_StartStop(t *testing.T) {
	t.Run("stops cleanly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queue.NewMemoryQueue(10)
		d := queue.NewDispatcher(q, mocks.NewMockSink(ctrl), 3, nil)

		d.Start(context.Background())

		done := make(chan struct{})
		go func() {
			d.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() timed out")
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		d := queue.NewDispatcher(queue.NewMemoryQueue(1), mocks.NewMockSink(ctrl), 1, nil)
		d.Start(context.Background())

		d.Stop()
		d.Stop()
	})
}

func TestDispatcher_Delivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	q := queue.NewMemoryQueue(10)
	d := queue.NewDispatcher(q, sink, 1, nil)

	var mu sync.Mutex
	var shown []string
	sink.EXPECT().
		Show(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n queue.Notice) error {
			mu.Lock()
			defer mu.Unlock()
			shown = append(shown, n.Message)
			return nil
		}).
		Times(2)

	_ = q.Enqueue(queue.NewNotice(queue.LevelError, "Failed to like article"))
	_ = q.Enqueue(queue.NewNotice(queue.LevelSuccess, "Article deleted"))

	d.Start(context.Background())
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Failed to like article", "Article deleted"}, shown)
}

func TestDispatcher_RetriesFailedDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	q := queue.NewMemoryQueue(10)
	d := queue.NewDispatcher(q, sink, 1, nil)

	delivered := make(chan queue.Notice, 1)
	gomock.InOrder(
		sink.EXPECT().Show(gomock.Any(), gomock.Any()).Return(assert.AnError),
		sink.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n queue.Notice) error {
			delivered <- n
			return nil
		}),
	)

	_ = q.Enqueue(queue.NewNotice(queue.LevelInfo, "retry me"))
	d.Start(context.Background())

	select {
	case n := <-delivered:
		assert.Equal(t, 1, n.Attempts)
		assert.Equal(t, "retry me", n.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not redelivered")
	}
	d.Stop()
}
