package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects task labels in execution order.
type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) task(label string) Task {
	return NewFuncTask(TaskTypeSheetUpdate, func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.seen = append(r.seen, label)
		return nil
	})
}

func (r *recorder) labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

// blockingTask runs until release is closed.
func blockingTask(started chan<- struct{}, release <-chan struct{}) Task {
	return NewFuncTask(TaskTypeSheetUpdate, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
}

func TestFuncTask(t *testing.T) {
	t.Parallel()

	called := false
	task := NewFuncTask("custom", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.NotEqual(t, task.ID(), NewFuncTask("custom", nil).ID())
	assert.Equal(t, "custom", task.Type())
	require.NoError(t, task.Execute(context.Background()))
	assert.True(t, called)
}

func TestWriteQueue_RunsTask(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	rec := &recorder{}

	require.NoError(t, q.Enqueue(1, rec.task("first")))
	require.NoError(t, q.Flush(context.Background(), 1))

	assert.Equal(t, []string{"first"}, rec.labels())
	assert.False(t, q.Pending(1))
}

func TestWriteQueue_NewestPendingWins(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	rec := &recorder{}
	started := make(chan struct{})
	release := make(chan struct{})

	require.NoError(t, q.Enqueue(1, blockingTask(started, release)))
	<-started

	// All of these queue behind the running task; only the last survives.
	require.NoError(t, q.Enqueue(1, rec.task("v1")))
	require.NoError(t, q.Enqueue(1, rec.task("v2")))
	require.NoError(t, q.Enqueue(1, rec.task("v3")))
	assert.True(t, q.Pending(1))

	close(release)
	require.NoError(t, q.Flush(context.Background(), 1))

	assert.Equal(t, []string{"v3"}, rec.labels())
}

func TestWriteQueue_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	rec := &recorder{}
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, q.Enqueue(1, blockingTask(started, release)))
	<-started

	require.NoError(t, q.Enqueue(2, rec.task("other")))
	require.NoError(t, q.Flush(context.Background(), 2))

	assert.Equal(t, []string{"other"}, rec.labels())
	assert.True(t, q.Pending(1))
}

func TestWriteQueue_SequentialOrderPerKey(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())

	var (
		mu      sync.Mutex
		last    int
		running int32
		overlap atomic.Bool
	)
	for i := 1; i <= 100; i++ {
		v := i
		require.NoError(t, q.Enqueue(7, NewFuncTask(TaskTypeSheetUpdate, func(ctx context.Context) error {
			if atomic.AddInt32(&running, 1) > 1 {
				overlap.Store(true)
			}
			defer atomic.AddInt32(&running, -1)
			mu.Lock()
			defer mu.Unlock()
			if v < last {
				return errors.New("out of order")
			}
			last = v
			return nil
		})))
	}
	require.NoError(t, q.Flush(context.Background(), 7))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 100, last, "the newest task is always the last one run")
	assert.False(t, overlap.Load(), "tasks for one key never overlap")
}

func TestWriteQueue_ErrorHandler(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	failure := errors.New("disk full")

	var (
		mu      sync.Mutex
		gotKey  int64
		gotErrs []error
	)
	q.SetErrorHandler(func(key int64, task Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		gotKey = key
		gotErrs = append(gotErrs, err)
	})

	require.NoError(t, q.Enqueue(3, NewFuncTask(TaskTypeSheetUpdate, func(ctx context.Context) error {
		return failure
	})))
	require.NoError(t, q.Flush(context.Background(), 3))

	require.NoError(t, q.Enqueue(3, NewFuncTask(TaskTypeSheetUpdate, func(ctx context.Context) error {
		panic("boom")
	})))
	require.NoError(t, q.Flush(context.Background(), 3))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int64(3), gotKey)
	require.Len(t, gotErrs, 2)
	assert.ErrorIs(t, gotErrs[0], failure)
	assert.Contains(t, gotErrs[1].Error(), "panicked")
}

func TestWriteQueue_FlushHonorsContext(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, q.Enqueue(1, blockingTask(started, release)))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Flush(ctx, 1), context.DeadlineExceeded)
}

func TestWriteQueue_FlushUnknownKey(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(nil)
	assert.NoError(t, q.Flush(context.Background(), 42))
}

func TestWriteQueue_Close(t *testing.T) {
	t.Parallel()

	q := NewWriteQueue(discardLogger())
	rec := &recorder{}
	started := make(chan struct{})
	release := make(chan struct{})

	require.NoError(t, q.Enqueue(1, blockingTask(started, release)))
	<-started
	require.NoError(t, q.Enqueue(1, rec.task("queued")))

	closed := make(chan error, 1)
	go func() { closed <- q.Close(context.Background()) }()

	// Close waits for queued work, so it cannot finish before release.
	select {
	case <-closed:
		t.Fatal("Close returned while work was still queued")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	assert.Equal(t, []string{"queued"}, rec.labels())
	assert.ErrorIs(t, q.Enqueue(1, rec.task("late")), ErrQueueClosed)
	assert.NoError(t, q.Close(context.Background()))
}
