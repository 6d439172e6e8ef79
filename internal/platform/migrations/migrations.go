// Package migrations embeds the SQL schema for every supported database
// driver and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// dialects maps a storage driver name to its goose dialect and directory.
var dialects = map[string]string{
	"sqlite":   "sqlite3",
	"postgres": "postgres",
}

// goose keeps its configuration in package globals.
var mu sync.Mutex

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger without exiting; goose returns the error
// to the caller as well.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func configure(driver string, logger *slog.Logger) (string, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}

	goose.SetBaseFS(embedded)
	goose.SetLogger(&slogGooseLogger{logger: logger})
	goose.SetTableName(TableName)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set dialect: %w", err)
	}

	return driver, nil
}

// Up applies all pending migrations for driver ("sqlite" or "postgres").
// If logger is nil, a default logger will be used.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "migrations", "driver", driver)

	mu.Lock()
	defer mu.Unlock()

	dir, err := configure(driver, log)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Debug("applying migrations")
	if err := goose.UpContext(ctx, db, dir); err != nil {
		log.Error("migration failed", "error", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log.Info("schema up to date",
		"version", version,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Version reports the schema version recorded in db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, err := configure(driver, slog.Default()); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
