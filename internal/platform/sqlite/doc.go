// Package sqlite provides the SQLite implementation of the storage interfaces
// defined in the internal/store package, built on the pure-Go
// modernc.org/sqlite driver. It is the default backend for local use.
package sqlite
