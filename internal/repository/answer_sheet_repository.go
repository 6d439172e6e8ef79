// Package repository is the persistence facade the engines talk to. It wraps
// an AnswerSheetStore, announces every write as a change event and keeps an
// observable, always-sorted copy of the stored collection.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/events"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
	"github.com/ThanakornSe/AnswerNote/internal/store"
)

// RepositoryError wraps failures from the repository with the operation that failed.
type RepositoryError struct {
	// Operation is the operation that failed (e.g., "insert", "update")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for RepositoryError.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("answer sheet repository %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// newRepositoryError wraps err unless it is a plain validation or not-found
// sentinel, which callers match directly.
func newRepositoryError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsInvalidInput(err) || errors.Is(err, store.ErrAnswerSheetNotFound) {
		return err
	}
	return &RepositoryError{Operation: operation, Err: err}
}

// AnswerSheetRepository mediates between the engines and the store.
type AnswerSheetRepository struct {
	store   store.AnswerSheetStore
	emitter events.EventEmitter
	sheets  *events.Subject[[]domain.AnswerSheet]
	logger  *slog.Logger

	// refreshMu orders refreshes so an older listing is never published
	// after a newer one.
	refreshMu sync.Mutex
}

// NewAnswerSheetRepository creates a repository over s and loads the initial
// collection. Writes are announced through emitter; if emitter is nil an
// in-memory emitter is created. If logger is nil, a default logger will be used.
func NewAnswerSheetRepository(
	ctx context.Context,
	s store.AnswerSheetStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*AnswerSheetRepository, error) {
	if s == nil {
		return nil, errors.New("answer sheet store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NewInMemoryEventEmitter(logger)
	}

	r := &AnswerSheetRepository{
		store:   s,
		emitter: emitter,
		sheets:  events.NewSubject([]domain.AnswerSheet{}),
		logger:  logger.With("component", "answer_sheet_repository"),
	}
	emitter.RegisterHandler(events.EventHandlerFunc(r.handleChange))

	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// handleChange reloads the collection after any write.
func (r *AnswerSheetRepository) handleChange(ctx context.Context, event *events.ChangeEvent) error {
	logger.FromContextOrDefault(ctx, r.logger).Debug("refreshing after change",
		"event_id", event.ID,
		"change", event.Type,
		"sheet_id", event.SheetID)
	return r.refresh(ctx)
}

func (r *AnswerSheetRepository) refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.sheets.Publish(list)
	return nil
}

// List returns every stored sheet, most recently updated first.
func (r *AnswerSheetRepository) List(ctx context.Context) ([]domain.AnswerSheet, error) {
	stored, err := r.store.List(ctx)
	if err != nil {
		return nil, newRepositoryError("list", err)
	}

	list := make([]domain.AnswerSheet, len(stored))
	for i, sheet := range stored {
		list[i] = sheet.Clone()
	}
	domain.SortByUpdatedDesc(list)
	return list, nil
}

// Observe subscribes to the stored collection. The current collection is
// delivered immediately and again after every write. Received slices are
// shared between subscribers and must not be modified.
func (r *AnswerSheetRepository) Observe() *events.Subscription[[]domain.AnswerSheet] {
	return r.sheets.Subscribe()
}

// Sheets returns the most recently published collection.
func (r *AnswerSheetRepository) Sheets() []domain.AnswerSheet {
	return r.sheets.Value()
}

// GetByID fetches one sheet. Returns store.ErrAnswerSheetNotFound if absent.
func (r *AnswerSheetRepository) GetByID(ctx context.Context, id int64) (domain.AnswerSheet, error) {
	sheet, err := r.store.GetByID(ctx, id)
	if err != nil {
		return domain.AnswerSheet{}, newRepositoryError("get", err)
	}
	return sheet.Clone(), nil
}

// Insert stores a new sheet and returns the ID assigned to it.
func (r *AnswerSheetRepository) Insert(ctx context.Context, sheet domain.AnswerSheet) (int64, error) {
	id, err := r.store.Create(ctx, &sheet)
	if err != nil {
		return 0, newRepositoryError("insert", err)
	}
	r.announce(ctx, events.ChangeCreated, id)
	return id, nil
}

// Update replaces the stored sheet with the same ID.
func (r *AnswerSheetRepository) Update(ctx context.Context, sheet domain.AnswerSheet) error {
	if err := r.store.Update(ctx, &sheet); err != nil {
		return newRepositoryError("update", err)
	}
	r.announce(ctx, events.ChangeUpdated, sheet.ID)
	return nil
}

// Delete removes a sheet. Deleting an unknown ID is not an error.
func (r *AnswerSheetRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.Delete(ctx, id)
	switch {
	case store.IsNotFoundError(err):
		logger.FromContextOrDefault(ctx, r.logger).Debug("delete of unknown sheet ignored", "sheet_id", id)
		return nil
	case err != nil:
		return newRepositoryError("delete", err)
	}
	r.announce(ctx, events.ChangeDeleted, id)
	return nil
}

// Close stops delivery to every observer.
func (r *AnswerSheetRepository) Close() {
	r.sheets.Close()
}

// announce emits a change event for a completed write. The write itself has
// already succeeded, so a failing handler is logged rather than returned.
func (r *AnswerSheetRepository) announce(ctx context.Context, change events.ChangeType, id int64) {
	if err := r.emitter.EmitEvent(ctx, events.NewChangeEvent(change, id)); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Warn("change handler failed",
			"change", change,
			"sheet_id", id,
			"error", err)
	}
}
