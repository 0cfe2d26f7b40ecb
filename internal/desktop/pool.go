package desktop

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs background network calls with a bounded number in
// flight. Every task shares one context that Cancel aborts.
type WorkerPool struct {
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	// tasks waiting for a free slot
	queued sync.WaitGroup
}

func NewWorkerPool(parent context.Context, size int) *WorkerPool {
	ctx, cancel := context.WithCancel(parent)
	group, ctx := errgroup.WithContext(ctx)
	if size < 1 {
		size = 1
	}
	group.SetLimit(size)

	return &WorkerPool{
		group:  group,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit starts task, or queues it until a slot frees up when the pool is
// full. It never blocks and reports false only once the pool is cancelled.
// A queued task whose turn comes after Cancel is dropped.
func (p *WorkerPool) Submit(task func(ctx context.Context)) bool {
	if p.ctx.Err() != nil {
		return false
	}

	run := func() error {
		if p.ctx.Err() != nil {
			return nil
		}
		task(p.ctx)
		return nil
	}
	if p.group.TryGo(run) {
		return true
	}

	p.queued.Add(1)
	go func() {
		defer p.queued.Done()
		p.group.Go(run)
	}()
	return true
}

func (p *WorkerPool) Cancel() {
	p.cancel()
}

// Wait blocks until every submitted task has returned. Submit must not be
// called concurrently with Wait.
func (p *WorkerPool) Wait() {
	p.queued.Wait()
	_ = p.group.Wait()
	p.cancel()
}
