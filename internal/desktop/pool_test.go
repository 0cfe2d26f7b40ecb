package desktop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_QueuesWhenFull(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)

	started := make(chan struct{})
	release := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	var second atomic.Bool
	done := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) {
		second.Store(true)
		close(done)
	}), "submit on a full pool should queue")
	assert.Never(t, second.Load, 50*time.Millisecond, 5*time.Millisecond, "queued task ran while the slot was taken")

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued task never ran")
	}
	pool.Wait()
}

func TestWorkerPool_DropsQueuedTasksOnCancel(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)

	started := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}))
	<-started

	var ran atomic.Bool
	assert.True(t, pool.Submit(func(ctx context.Context) { ran.Store(true) }))

	pool.Cancel()
	pool.Wait()
	assert.False(t, ran.Load())
}

func TestWorkerPool_CancelStopsTasks(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)

	var cancelled atomic.Bool
	started := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
	}))
	<-started

	pool.Cancel()
	pool.Wait()

	assert.True(t, cancelled.Load())
	assert.False(t, pool.Submit(func(ctx context.Context) {}))
}

func TestWorkerPool_MinimumSize(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0)
	done := make(chan struct{})
	assert.True(t, pool.Submit(func(ctx context.Context) { close(done) }))
	<-done
	pool.Wait()
}
