package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the WriteQueue
var (
	ErrQueueClosed = errors.New("write queue is closed")
)

// WriteQueue serializes tasks per key.
//
// For each key at most one task runs at a time and at most one waits behind
// it. Enqueueing while a task is already waiting replaces the waiting task,
// so the newest snapshot of a key is always the last one written and writes
// for one key never complete out of order. Different keys run concurrently.
// Running tasks are never cancelled.
type WriteQueue struct {
	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool

	// wg tracks lane goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is passed to every Execute; it is never cancelled
	ctx context.Context

	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(key int64, task Task, err error)
}

type lane struct {
	pending Task
	idle    chan struct{}
}

// NewWriteQueue creates an empty WriteQueue.
// If logger is nil, a default logger will be used.
func NewWriteQueue(logger *slog.Logger) *WriteQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteQueue{
		lanes:  make(map[int64]*lane),
		ctx:    context.Background(),
		logger: logger.With("component", "write_queue"),
	}
}

// SetErrorHandler allows setting a custom error handler for task execution failures
func (q *WriteQueue) SetErrorHandler(handler func(key int64, task Task, err error)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.errorHandler = handler
}

// Enqueue schedules task for key. If another task for key is waiting to run,
// it is discarded in favor of this one.
// Returns ErrQueueClosed after Close.
func (q *WriteQueue) Enqueue(key int64, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	l, ok := q.lanes[key]
	if !ok {
		l = &lane{idle: make(chan struct{})}
		q.lanes[key] = l
		q.wg.Add(1)
		go q.run(key, l)
	}

	if l.pending != nil {
		q.logger.Debug("task superseded",
			"key", key,
			"task_id", l.pending.ID(),
			"replaced_by", task.ID())
	}
	l.pending = task

	q.logger.Debug("task enqueued",
		"key", key,
		"task_id", task.ID(),
		"task_type", task.Type())
	return nil
}

func (q *WriteQueue) run(key int64, l *lane) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		next := l.pending
		if next == nil {
			delete(q.lanes, key)
			close(l.idle)
			q.mu.Unlock()
			return
		}
		l.pending = nil
		handler := q.errorHandler
		q.mu.Unlock()

		if err := q.execute(next); err != nil {
			q.logger.Error("task execution failed",
				"key", key,
				"task_id", next.ID(),
				"task_type", next.Type(),
				"error", err)
			if handler != nil {
				handler(key, next, err)
			}
		}
	}
}

func (q *WriteQueue) execute(t Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return t.Execute(q.ctx)
}

// Pending reports whether key has a running or waiting task.
func (q *WriteQueue) Pending(key int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.lanes[key]
	return ok
}

// Flush blocks until key has no running or waiting task, or ctx is done.
func (q *WriteQueue) Flush(ctx context.Context, key int64) error {
	q.mu.Lock()
	l, ok := q.lanes[key]
	q.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case <-l.idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further tasks and waits for queued ones to finish, or for ctx.
func (q *WriteQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.logger.Info("write queue closed")
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
