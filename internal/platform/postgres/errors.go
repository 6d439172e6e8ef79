package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/ThanakornSe/AnswerNote/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	invalidTextCode         = "22P02"
	numericOutOfRangeCode   = "22003"
	integrityViolationClass = "23"

	// connectionExceptionClass prefixes the SQLSTATE codes for lost or refused connections
	connectionExceptionClass = "08"

	// adminShutdownCode is reported when the server terminates the session
	adminShutdownCode = "57P01"

	// tooManyConnectionsCode is reported when the server refuses a new session
	tooManyConnectionsCode = "53300"
)

// rejectedRowCodes names the SQLSTATE codes that mean the row itself was
// refused by the schema, so the answer sheet written was not storable.
var rejectedRowCodes = map[string]string{
	uniqueViolationCode:   "unique violation",
	checkViolationCode:    "check constraint violation",
	notNullViolationCode:  "not null violation",
	invalidTextCode:       "invalid column value",
	numericOutOfRangeCode: "numeric value out of range",
}

// MapError maps a database error to a store error, keeping the original
// error text for debugging. Errors with no mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if IsConnectionError(err) {
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if label, ok := rejectedRowCodes[pgErr.Code]; ok {
		target := pgErr.ConstraintName
		if target == "" {
			target = pgErr.ColumnName
		}
		return fmt.Errorf("%w: %s (%s): %v", store.ErrInvalidEntity, label, target, err)
	}

	return err
}

// IsConstraintViolation reports whether err is any integrity constraint
// violation (SQLSTATE class 23).
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityViolationClass)
}

// IsNotFoundError checks if the given error represents a "not found" scenario.
// This handles both sql.ErrNoRows and errors that are or wrap store.ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound)
}

// CheckRowsAffected returns store.ErrNotFound, naming entityName, when an
// UPDATE or DELETE matched no row.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		return nil
	}
	if entityName == "" {
		return store.ErrNotFound
	}
	return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
}

// IsConnectionError checks if err means the database could not be reached:
// a failed connect, a dropped or refused session, a timeout, or a closed pool.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) ||
		strings.Contains(err.Error(), "database is closed") {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, connectionExceptionClass) ||
			pgErr.Code == adminShutdownCode ||
			pgErr.Code == tooManyConnectionsCode
	}

	return false
}
