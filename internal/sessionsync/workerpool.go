package sessionsync

//go:generate mockgen -source=workerpool.go -destination=mock_workerpool.go -package=sessionsync

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool closed")

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

type Task func() error

// WorkerPool runs session checks on a fixed number of goroutines. AddTask is
// safe to call concurrently with Close.
type WorkerPool struct {
	tasks   chan Task
	closing chan struct{}
	mu      sync.RWMutex
	closed  bool
	workers sync.WaitGroup
	once    sync.Once
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		tasks:   make(chan Task, size),
		closing: make(chan struct{}),
	}

	wp.workers.Add(size)
	for i := 0; i < size; i++ {
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.workers.Done()
	for task := range wp.tasks {
		if err := task(); err != nil {
			zap.L().Error("session check failed", zap.Error(err))
		}
	}
}

// AddTask queues task. It fails with ErrPoolClosed once Close has begun.
func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.closing:
		return ErrPoolClosed
	case wp.tasks <- task:
		return nil
	}
}

// Close rejects new tasks, runs the ones already queued and waits for the
// workers to exit.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.closing)

		wp.mu.Lock()
		wp.closed = true
		close(wp.tasks)
		wp.mu.Unlock()
	})
	wp.workers.Wait()
}
