// Package store declares how answer sheets are persisted: the
// AnswerSheetStore interface, the row shape shared by the SQL
// implementations, and the not-found, invalid-entity and storage-unavailable
// errors every implementation reports through.
//
// Concrete stores live under internal/platform (sqlite and postgres).
package store
