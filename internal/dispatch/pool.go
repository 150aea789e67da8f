// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch runs record classification on a bounded, shared worker
// pool with a global deadline per batch.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close has been called.
var ErrPoolClosed = errors.New("worker pool closed")

const (
	defaultWorkers   = 10
	defaultQueueSize = 10000
)

// PoolConfig configures a new Pool.
type PoolConfig struct {
	// Workers is the fixed number of worker goroutines (default 10).
	Workers int
	// QueueSize is the capacity of the task queue (default 10000).
	QueueSize int
	Logger    *slog.Logger
}

// Pool is a fixed-size set of worker goroutines draining a shared task
// queue. The pool is created once at startup, shared by every request, and
// shut down with Close at process teardown.
type Pool struct {
	workers int
	queue   chan func()
	logger  *slog.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool starts cfg.Workers workers and returns the running pool.
func NewPool(cfg PoolConfig) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	p := &Pool{
		workers: workers,
		queue:   make(chan func(), queueSize),
		logger:  logger.With("component", "pool"),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.logger.Debug("worker pool started", "workers", workers, "queue_size", queueSize)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.workers }

// QueueDepth returns the number of tasks waiting for a worker.
func (p *Pool) QueueDepth() int { return len(p.queue) }

// Submit enqueues task. It blocks while the queue is full and returns
// ctx.Err() if ctx ends first, or ErrPoolClosed once the pool is closed.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, lets workers drain the queue, and waits for
// them to exit. Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Debug("worker pool stopped")
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(id, task)
	}
}

// run executes one task. A panicking task must not take its worker down.
func (p *Pool) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "worker", id, "panic", fmt.Sprint(r))
		}
	}()
	task()
}
