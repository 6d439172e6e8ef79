package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
	"github.com/ThanakornSe/AnswerNote/internal/store"
)

const selectAnswerSheetColumns = `
	SELECT id, name, number_of_questions, answers, created_at, updated_at
	FROM answer_sheets
`

// SQLiteAnswerSheetStore implements the store.AnswerSheetStore interface
// using an SQLite database as the storage backend.
type SQLiteAnswerSheetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteAnswerSheetStore creates a new SQLite implementation of the AnswerSheetStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteAnswerSheetStore(db store.DBTX, logger *slog.Logger) *SQLiteAnswerSheetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteAnswerSheetStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_sheet_store"), slog.String("driver", "sqlite")),
	}
}

// Ensure SQLiteAnswerSheetStore implements store.AnswerSheetStore interface
var _ store.AnswerSheetStore = (*SQLiteAnswerSheetStore)(nil)

// List implements store.AnswerSheetStore.List
func (s *SQLiteAnswerSheetStore) List(ctx context.Context) ([]*domain.AnswerSheet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectAnswerSheetColumns+`ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		log.Error("failed to list answer sheets", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityAnswerSheet, "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	sheets := make([]*domain.AnswerSheet, 0)
	for rows.Next() {
		var row store.AnswerSheetRow
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.NumberOfQuestions,
			&row.Answers,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			log.Error("failed to scan answer sheet row", slog.String("error", err.Error()))
			return nil, store.NewStoreError(store.EntityAnswerSheet, "list", "scan failed", MapError(err))
		}

		sheet, err := row.ToDomain()
		if err != nil {
			log.Error("failed to decode answer sheet row",
				slog.Int64("sheet_id", row.ID),
				slog.String("error", err.Error()))
			return nil, store.NewStoreError(store.EntityAnswerSheet, "list", "decode failed", err)
		}
		sheets = append(sheets, sheet)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating answer sheet rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityAnswerSheet, "list", "iteration failed", MapError(err))
	}

	log.Debug("listed answer sheets", slog.Int("count", len(sheets)))
	return sheets, nil
}

// GetByID implements store.AnswerSheetStore.GetByID
// Returns store.ErrAnswerSheetNotFound if the sheet does not exist.
func (s *SQLiteAnswerSheetStore) GetByID(ctx context.Context, id int64) (*domain.AnswerSheet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving answer sheet by ID", slog.Int64("sheet_id", id))

	var row store.AnswerSheetRow
	err := s.db.QueryRowContext(ctx, selectAnswerSheetColumns+`WHERE id = ?`, id).Scan(
		&row.ID,
		&row.Name,
		&row.NumberOfQuestions,
		&row.Answers,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("answer sheet not found", slog.Int64("sheet_id", id))
			return nil, store.ErrAnswerSheetNotFound
		}
		log.Error("failed to get answer sheet by ID",
			slog.Int64("sheet_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityAnswerSheet, "get", "query failed", MapError(err))
	}

	sheet, err := row.ToDomain()
	if err != nil {
		log.Error("failed to decode answer sheet row",
			slog.Int64("sheet_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityAnswerSheet, "get", "decode failed", err)
	}

	return sheet, nil
}

// Create implements store.AnswerSheetStore.Create
// Returns validation errors from the domain sheet if data is invalid.
func (s *SQLiteAnswerSheetStore) Create(ctx context.Context, sheet *domain.AnswerSheet) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := store.NewAnswerSheetRow(sheet)
	if err != nil {
		log.Warn("answer sheet validation failed during create", slog.String("error", err.Error()))
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO answer_sheets (name, number_of_questions, answers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		row.Name,
		row.NumberOfQuestions,
		row.Answers,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create answer sheet",
			slog.String("name", row.Name),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError(store.EntityAnswerSheet, "create", "insert failed", MapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Error("failed to read inserted answer sheet ID", slog.String("error", err.Error()))
		return 0, store.NewStoreError(store.EntityAnswerSheet, "create", "reading ID failed", MapError(err))
	}

	log.Info("answer sheet created",
		slog.Int64("sheet_id", id),
		slog.Int("number_of_questions", row.NumberOfQuestions))
	return id, nil
}

// Update implements store.AnswerSheetStore.Update
// Returns store.ErrAnswerSheetNotFound if the sheet does not exist.
func (s *SQLiteAnswerSheetStore) Update(ctx context.Context, sheet *domain.AnswerSheet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := store.NewAnswerSheetRow(sheet)
	if err != nil {
		log.Warn("answer sheet validation failed during update", slog.String("error", err.Error()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE answer_sheets
		SET name = ?, number_of_questions = ?, answers = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`,
		row.Name,
		row.NumberOfQuestions,
		row.Answers,
		row.CreatedAt,
		row.UpdatedAt,
		row.ID,
	)
	if err != nil {
		log.Error("failed to update answer sheet",
			slog.Int64("sheet_id", row.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityAnswerSheet, "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrAnswerSheetNotFound); err != nil {
		log.Debug("answer sheet not found for update", slog.Int64("sheet_id", row.ID))
		return err
	}

	log.Debug("answer sheet updated", slog.Int64("sheet_id", row.ID))
	return nil
}

// Delete implements store.AnswerSheetStore.Delete
// Returns store.ErrAnswerSheetNotFound if the sheet does not exist.
func (s *SQLiteAnswerSheetStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM answer_sheets WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete answer sheet",
			slog.Int64("sheet_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityAnswerSheet, "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrAnswerSheetNotFound); err != nil {
		log.Debug("answer sheet not found for delete", slog.Int64("sheet_id", id))
		return err
	}

	log.Info("answer sheet deleted", slog.Int64("sheet_id", id))
	return nil
}

// WithTx implements store.AnswerSheetStore.WithTx
func (s *SQLiteAnswerSheetStore) WithTx(tx *sql.Tx) store.AnswerSheetStore {
	return &SQLiteAnswerSheetStore{
		db:     tx,
		logger: s.logger,
	}
}
