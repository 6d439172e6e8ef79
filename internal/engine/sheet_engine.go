package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/events"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
	"github.com/ThanakornSe/AnswerNote/internal/store"
	"github.com/ThanakornSe/AnswerNote/internal/task"
)

// SheetRepository is the storage SheetEngine reads and writes through.
type SheetRepository interface {
	GetByID(ctx context.Context, id int64) (domain.AnswerSheet, error)
	Update(ctx context.Context, sheet domain.AnswerSheet) error
}

// SheetEngine manages exactly one active answer sheet.
//
// Mutations are applied one at a time against the latest snapshot. Each
// successful mutation publishes the new State and, when the sheet has an ID,
// queues a write of the new snapshot on the shared WriteQueue under that ID.
// Invalid input is rejected without touching state or storage.
type SheetEngine struct {
	repo   SheetRepository
	queue  *task.WriteQueue
	logger *slog.Logger
	now    func() time.Time

	// mu serializes mutations so queue order equals mutation order.
	mu      sync.Mutex
	state   *events.Subject[State]
	loadSeq uint64
}

// NewSheetEngine creates an engine with an empty, unloaded sheet.
// Writes go through queue, which may be shared between engines.
// If logger is nil, a default logger will be used.
func NewSheetEngine(repo SheetRepository, queue *task.WriteQueue, logger *slog.Logger, opts ...Option) *SheetEngine {
	if repo == nil {
		panic("repo cannot be nil")
	}
	if queue == nil {
		panic("queue cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := applyOptions(opts)
	return &SheetEngine{
		repo:   repo,
		queue:  queue,
		logger: logger.With("component", "sheet_engine"),
		now:    o.now,
		state:  events.NewSubject(newState(domain.AnswerSheet{})),
	}
}

// Observe subscribes to engine state. The current State is delivered first.
// Delivered States share their question slice between subscribers and with
// the engine, and must not be modified; use State for a private copy.
func (e *SheetEngine) Observe() *events.Subscription[State] {
	return e.state.Subscribe()
}

// State returns a copy of the current state. Changing it does not affect
// the engine.
func (e *SheetEngine) State() State {
	st := e.state.Value()
	st.Sheet = st.Sheet.Clone()
	return st
}

// Load makes the sheet with id the active sheet.
//
// Queued writes for id are waited for first, so the load observes the latest
// edit. If no such sheet exists the engine moves to an empty state with
// NotFound set and Load returns nil. A storage failure is returned and the
// previous state is kept.
func (e *SheetEngine) Load(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, e.logger).With("sheet_id", id)

	e.mu.Lock()
	e.loadSeq++
	seq := e.loadSeq
	e.state.Update(func(s State) State {
		s.Loading = true
		return s
	})
	e.mu.Unlock()

	if err := e.queue.Flush(ctx, id); err != nil {
		e.finishLoad(seq)
		return err
	}

	sheet, err := e.repo.GetByID(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.loadSeq {
		log.Debug("discarding superseded load")
		return err
	}

	switch {
	case store.IsNotFoundError(err):
		log.Info("answer sheet not found")
		next := newState(domain.AnswerSheet{})
		next.NotFound = true
		e.state.Publish(next)
		return nil
	case err != nil:
		log.Error("failed to load answer sheet", "error", err)
		e.state.Update(func(s State) State {
			s.Loading = false
			return s
		})
		return err
	}

	next := newState(sheet)
	next.Loaded = true
	e.state.Publish(next)
	log.Debug("answer sheet loaded", "number_of_questions", sheet.NumberOfQuestions)
	return nil
}

func (e *SheetEngine) finishLoad(seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq == e.loadSeq {
		e.state.Update(func(s State) State {
			s.Loading = false
			return s
		})
	}
}

// SelectAnswer sets the selection for question number. AnswerNone clears it.
// Grading is left untouched.
func (e *SheetEngine) SelectAnswer(number int, answer domain.Answer) error {
	return e.mutate(func(s domain.AnswerSheet) (domain.AnswerSheet, error) {
		return s.WithSelectedAnswer(number, answer)
	})
}

// SetCorrectAnswer grades question number against answer, replacing any
// earlier grading. AnswerNone is rejected.
func (e *SheetEngine) SetCorrectAnswer(number int, answer domain.Answer) error {
	return e.mutate(func(s domain.AnswerSheet) (domain.AnswerSheet, error) {
		return s.WithCorrectAnswer(number, answer)
	})
}

// SetNumberOfQuestions replaces every question with n fresh, unanswered and
// ungraded records.
func (e *SheetEngine) SetNumberOfQuestions(n int) error {
	return e.mutate(func(s domain.AnswerSheet) (domain.AnswerSheet, error) {
		return s.WithNumberOfQuestions(n)
	})
}

// ClearAll resets every selection to NONE. Grading is kept.
func (e *SheetEngine) ClearAll() {
	_ = e.mutate(func(s domain.AnswerSheet) (domain.AnswerSheet, error) {
		return s.Cleared(), nil
	})
}

// ExportSummary renders the active sheet as shareable text.
func (e *SheetEngine) ExportSummary() string {
	return e.State().Sheet.ExportSummary()
}

// mutate applies fn to the current sheet, publishes the result and queues
// its write.
func (e *SheetEngine) mutate(fn func(domain.AnswerSheet) (domain.AnswerSheet, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.state.Value()
	next, err := fn(current.Sheet)
	if err != nil {
		return err
	}
	next = next.Touched(e.now())

	st := current.withSheet(next)
	if next.ID != 0 {
		if err := e.queue.Enqueue(next.ID, e.writeTask(next)); err != nil {
			e.logger.Error("failed to queue answer sheet write",
				"sheet_id", next.ID,
				"error", err)
			st.PersistErr = err
		}
	}
	e.state.Publish(st)
	return nil
}

// writeTask persists snapshot and records the outcome on the state.
func (e *SheetEngine) writeTask(snapshot domain.AnswerSheet) task.Task {
	return task.NewFuncTask(task.TaskTypeSheetUpdate, func(ctx context.Context) error {
		err := e.repo.Update(ctx, snapshot)
		e.recordPersist(snapshot.ID, err)
		return err
	})
}

func (e *SheetEngine) recordPersist(id int64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.state.Value()
	if current.Sheet.ID != id || (current.PersistErr == nil && err == nil) {
		return
	}
	current.PersistErr = err
	e.state.Publish(current)
}

// Flush waits until every queued write of the active sheet has finished and
// returns the failure of the last one, if any.
func (e *SheetEngine) Flush(ctx context.Context) error {
	id := e.State().Sheet.ID
	if id == 0 {
		return nil
	}
	if err := e.queue.Flush(ctx, id); err != nil {
		return err
	}
	return e.State().PersistErr
}

// Close flushes pending writes and ends every subscription.
// The queue is left open for other engines sharing it.
func (e *SheetEngine) Close(ctx context.Context) error {
	err := e.Flush(ctx)
	e.state.Close()
	return err
}
