// Package mocks provides shared test doubles for the store and event
// interfaces.
//
// MockAnswerSheetStore is an in-memory store with function-field overrides
// and injectable errors; TestifyMockAnswerSheetStore is the testify/mock
// flavour for tests that assert on exact calls.
//
// Usage:
//
//	import "github.com/ThanakornSe/AnswerNote/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    sheets := mocks.NewMockAnswerSheetStore()
//	    sheets.UpdateError = store.ErrStorageUnavailable
//
//	    // Use the mock in your test...
//	}
package mocks
