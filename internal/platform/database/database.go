// Package database opens the configured answer sheet database, brings its
// schema up to date and builds the matching store implementation.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/config"
	"github.com/ThanakornSe/AnswerNote/internal/platform/migrations"
	"github.com/ThanakornSe/AnswerNote/internal/platform/postgres"
	"github.com/ThanakornSe/AnswerNote/internal/platform/sqlite"
	"github.com/ThanakornSe/AnswerNote/internal/redact"
	"github.com/ThanakornSe/AnswerNote/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// pingTimeout bounds the connectivity check on open.
const pingTimeout = 5 * time.Second

// sqlitePragmas are applied to every SQLite connection pool after open.
var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// driverName maps a configured storage driver to its database/sql name.
func driverName(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported storage driver: %q", driver)
	}
}

// Open connects to the database described by cfg, verifies the connection
// and, when cfg.Migrate is set, applies pending schema migrations.
// If logger is nil, a default logger will be used.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "database", "driver", cfg.Driver)

	name, err := driverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	log.Debug("opening database", "dsn", redact.DSN(cfg.DSN))
	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %s", redact.Error(err))
	}

	tunePool(cfg.Driver, db)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed", "error", redact.Error(err))
		return nil, fmt.Errorf("%w: failed to ping database: %s", store.ErrStorageUnavailable, redact.Error(err))
	}

	if cfg.Driver == config.DriverSQLite {
		for _, pragma := range sqlitePragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	if cfg.Migrate {
		if err := migrations.Up(ctx, db, cfg.Driver, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	log.Info("database connection established")
	return db, nil
}

// tunePool sizes the connection pool for the driver. SQLite allows a single
// writer, so its pool is kept to one connection.
func tunePool(driver string, db *sql.DB) {
	switch driver {
	case config.DriverSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
}

// NewAnswerSheetStore returns the store implementation for driver backed by db.
func NewAnswerSheetStore(db store.DBTX, driver string, logger *slog.Logger) (store.AnswerSheetStore, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.NewSQLiteAnswerSheetStore(db, logger), nil
	case config.DriverPostgres:
		return postgres.NewPostgresAnswerSheetStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", driver)
	}
}
