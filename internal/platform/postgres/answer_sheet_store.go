package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
	"github.com/ThanakornSe/AnswerNote/internal/store"
)

// PostgresAnswerSheetStore implements the store.AnswerSheetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAnswerSheetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAnswerSheetStore creates a new PostgreSQL implementation of the AnswerSheetStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAnswerSheetStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerSheetStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAnswerSheetStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_sheet_store"), slog.String("driver", "postgres")),
	}
}

// Ensure PostgresAnswerSheetStore implements store.AnswerSheetStore interface
var _ store.AnswerSheetStore = (*PostgresAnswerSheetStore)(nil)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (store.AnswerSheetRow, error) {
	var row store.AnswerSheetRow
	err := sc.Scan(
		&row.ID,
		&row.Name,
		&row.NumberOfQuestions,
		&row.Answers,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

// List implements store.AnswerSheetStore.List
// Sheets are ordered by update time, newest first; ties go to the higher ID.
func (s *PostgresAnswerSheetStore) List(ctx context.Context) ([]*domain.AnswerSheet, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, number_of_questions, answers, created_at, updated_at
		FROM answer_sheets
		ORDER BY updated_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
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
		row, err := scanRow(rows)
		if err != nil {
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
func (s *PostgresAnswerSheetStore) GetByID(ctx context.Context, id int64) (*domain.AnswerSheet, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving answer sheet by ID", slog.Int64("sheet_id", id))

	query := `
		SELECT id, name, number_of_questions, answers, created_at, updated_at
		FROM answer_sheets
		WHERE id = $1
	`

	row, err := scanRow(s.db.QueryRowContext(ctx, query, id))
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
// The ID is assigned by the BIGSERIAL column and returned.
// Returns validation errors from the domain sheet if data is invalid.
func (s *PostgresAnswerSheetStore) Create(ctx context.Context, sheet *domain.AnswerSheet) (int64, error) {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := store.NewAnswerSheetRow(sheet)
	if err != nil {
		log.Warn("answer sheet validation failed during create", slog.String("error", err.Error()))
		return 0, err
	}

	query := `
		INSERT INTO answer_sheets (name, number_of_questions, answers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err = s.db.QueryRowContext(
		ctx,
		query,
		row.Name,
		row.NumberOfQuestions,
		row.Answers,
		row.CreatedAt,
		row.UpdatedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create answer sheet",
			slog.String("name", row.Name),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError(store.EntityAnswerSheet, "create", "insert failed", MapError(err))
	}

	log.Info("answer sheet created",
		slog.Int64("sheet_id", id),
		slog.Int("number_of_questions", row.NumberOfQuestions))
	return id, nil
}

// Update implements store.AnswerSheetStore.Update
// Returns store.ErrAnswerSheetNotFound if the sheet does not exist.
func (s *PostgresAnswerSheetStore) Update(ctx context.Context, sheet *domain.AnswerSheet) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := store.NewAnswerSheetRow(sheet)
	if err != nil {
		log.Warn("answer sheet validation failed during update", slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE answer_sheets
		SET name = $1, number_of_questions = $2, answers = $3, created_at = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
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

	if err := CheckRowsAffected(result, "answer sheet"); err != nil {
		if IsNotFoundError(err) {
			log.Debug("answer sheet not found for update", slog.Int64("sheet_id", row.ID))
			return store.ErrAnswerSheetNotFound
		}
		return err
	}

	log.Debug("answer sheet updated", slog.Int64("sheet_id", row.ID))
	return nil
}

// Delete implements store.AnswerSheetStore.Delete
// Returns store.ErrAnswerSheetNotFound if the sheet does not exist.
func (s *PostgresAnswerSheetStore) Delete(ctx context.Context, id int64) error {
	// Get the logger from context or use default
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM answer_sheets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete answer sheet",
			slog.Int64("sheet_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityAnswerSheet, "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, "answer sheet"); err != nil {
		if IsNotFoundError(err) {
			log.Debug("answer sheet not found for delete", slog.Int64("sheet_id", id))
			return store.ErrAnswerSheetNotFound
		}
		return err
	}

	log.Info("answer sheet deleted", slog.Int64("sheet_id", id))
	return nil
}

// WithTx implements store.AnswerSheetStore.WithTx
// It returns a new AnswerSheetStore instance that uses the provided transaction.
func (s *PostgresAnswerSheetStore) WithTx(tx *sql.Tx) store.AnswerSheetStore {
	return &PostgresAnswerSheetStore{
		db:     tx,
		logger: s.logger,
	}
}
