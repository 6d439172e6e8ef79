package store

import (
	"context"
	"database/sql"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
)

// EntityAnswerSheet is the entity name used in StoreError values.
const EntityAnswerSheet = "answer_sheet"

// AnswerSheetStore defines the interface for answer sheet persistence.
// One row per sheet; the questions travel as an opaque answers column
// encoded with domain.EncodeQuestions.
type AnswerSheetStore interface {
	// List returns every sheet, most recently updated first.
	// Returns an empty slice if the store is empty.
	List(ctx context.Context) ([]*domain.AnswerSheet, error)

	// GetByID retrieves a sheet by its ID.
	// Returns ErrAnswerSheetNotFound if the sheet does not exist.
	GetByID(ctx context.Context, id int64) (*domain.AnswerSheet, error)

	// Create inserts a new sheet and returns the ID assigned by the store.
	// The sheet's own ID is ignored. Returns validation errors from the
	// domain sheet if data is invalid.
	Create(ctx context.Context, sheet *domain.AnswerSheet) (int64, error)

	// Update replaces the stored sheet with the same ID.
	// Returns ErrAnswerSheetNotFound if the sheet does not exist.
	Update(ctx context.Context, sheet *domain.AnswerSheet) error

	// Delete removes a sheet by ID.
	// Returns ErrAnswerSheetNotFound if the sheet does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new AnswerSheetStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AnswerSheetStore
}
