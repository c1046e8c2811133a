// Package worker runs detached background tasks on a bounded set of
// goroutines. Submit never blocks the caller.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/metrics"
)

// Task is one unit of background work. The context is cancelled when the
// pool is force-stopped.
type Task func(ctx context.Context)

// ErrPoolClosed is reported by Shutdown when called twice.
var ErrPoolClosed = errors.New("worker pool already closed")

// Pool is an in-process executor with a fixed worker count and a buffered queue.
type Pool struct {
	tasks  chan Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	active  atomic.Int32
	dropped atomic.Int64
}

// NewPool starts workers goroutines reading from a queue of queueSize.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for task := range p.tasks {
		metrics.ExtractionQueueDepth.Set(float64(len(p.tasks)))
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("worker pool: task panicked", "panic", rec)
		}
	}()
	task(p.ctx)
}

// Submit enqueues task without blocking. It returns false when the queue is
// full or the pool is shut down; the task is then dropped.
func (p *Pool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		return false
	}

	select {
	case p.tasks <- task:
		metrics.ExtractionQueueDepth.Set(float64(len(p.tasks)))
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// Active returns the number of tasks currently running.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Dropped returns how many tasks were rejected since start.
func (p *Pool) Dropped() int64 {
	return p.dropped.Load()
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish. If ctx expires first, running tasks are cancelled and ctx.Err() is
// returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		// Give cancelled tasks a moment to observe ctx.
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
		return ctx.Err()
	}
}
