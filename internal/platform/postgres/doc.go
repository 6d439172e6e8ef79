// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution over the pgx stdlib driver and the mapping
// between answer sheets and their rows.
package postgres
