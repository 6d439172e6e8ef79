package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ThanakornSe/AnswerNote/internal/config"
	"github.com/ThanakornSe/AnswerNote/internal/engine"
	"github.com/ThanakornSe/AnswerNote/internal/platform/database"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
	"github.com/ThanakornSe/AnswerNote/internal/repository"
	"github.com/ThanakornSe/AnswerNote/internal/task"
)

// application holds the wired components for one CLI invocation.
type application struct {
	logger    *slog.Logger
	logCloser io.Closer
	db        *sql.DB
	repo      *repository.AnswerSheetRepository
	queue     *task.WriteQueue
	list      *engine.ListEngine
	sheet     *engine.SheetEngine
}

// loadConfig reads configuration from path, or from the default locations
// when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newApplication wires logging, storage, the repository and both engines.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	l, closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	app := &application{logger: l, logCloser: closer}

	l.Debug("configuration loaded",
		"log_level", cfg.Log.Level,
		"storage_driver", cfg.Storage.Driver,
		"migrate", cfg.Storage.Migrate)

	db, err := database.Open(ctx, cfg.Storage, l)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	app.db = db

	s, err := database.NewAnswerSheetStore(db, cfg.Storage.Driver, l)
	if err != nil {
		app.closeStorage()
		return nil, err
	}

	repo, err := repository.NewAnswerSheetRepository(ctx, s, nil, l)
	if err != nil {
		app.closeStorage()
		return nil, fmt.Errorf("failed to load answer sheets: %w", err)
	}
	app.repo = repo

	app.queue = task.NewWriteQueue(l)
	app.queue.SetErrorHandler(func(key int64, t task.Task, err error) {
		l.Warn("answer sheet write failed",
			"sheet_id", key,
			"task_id", t.ID(),
			"error", err)
	})

	app.list = engine.NewListEngine(repo, l)
	app.sheet = engine.NewSheetEngine(repo, app.queue, l)

	return app, nil
}

// Close flushes pending writes and releases every resource.
func (a *application) Close(ctx context.Context) error {
	var errs []error

	if err := a.sheet.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to save answer sheet: %w", err))
	}
	a.list.Close()
	if err := a.queue.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	a.repo.Close()
	a.closeStorage()

	return errors.Join(errs...)
}

func (a *application) closeStorage() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
	if err := a.logCloser.Close(); err != nil {
		a.logger.Error("failed to close log output", "error", err)
	}
}
