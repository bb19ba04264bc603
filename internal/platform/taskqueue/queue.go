// Package taskqueue runs fire-and-forget work on a fixed pool of workers fed
// by a bounded buffer.
package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)

const (
	defaultWorkers     = 2
	defaultCapacity    = 64
	defaultTaskTimeout = 30 * time.Second
)

// Task is a unit of background work.
type Task struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a bounded in-process work queue. Submit never blocks: when the
// buffer is full the task is rejected.
type Queue struct {
	mu      sync.RWMutex
	closed  bool
	tasks   chan Task
	group   errgroup.Group
	baseCtx context.Context
	cancel  context.CancelFunc

	workers  int
	capacity int
	timeout  time.Duration
	logger   *slog.Logger
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

func WithTaskTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New starts the worker pool.
func New(opts ...Option) *Queue {
	q := &Queue{
		workers:  defaultWorkers,
		capacity: defaultCapacity,
		timeout:  defaultTaskTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	q.tasks = make(chan Task, q.capacity)
	q.baseCtx, q.cancel = context.WithCancel(context.Background())
	for i := 0; i < q.workers; i++ {
		q.group.Go(func() error {
			for task := range q.tasks {
				q.execute(task)
			}
			return nil
		})
	}
	return q
}

// Submit enqueues a task without blocking.
func (q *Queue) Submit(task Task) error {
	if task.Run == nil {
		return errors.New("task has no run function")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len reports the number of buffered tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Close stops accepting tasks and waits for buffered ones to finish. When ctx
// expires first, in-flight tasks are cancelled and ctx.Err() is returned.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- q.group.Wait() }()
	select {
	case err := <-done:
		q.cancel()
		return err
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

func (q *Queue) execute(task Task) {
	ctx, cancel := context.WithTimeout(q.baseCtx, q.timeout)
	defer cancel()
	attrs := []slog.Attr{slog.String("task.id", task.ID), slog.String("task.name", task.Name)}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return task.Run(ctx)
	}()
	if err != nil {
		q.logger.LogAttrs(ctx, slog.LevelError, "background task failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	q.logger.LogAttrs(ctx, slog.LevelDebug, "background task completed", attrs...)
}
