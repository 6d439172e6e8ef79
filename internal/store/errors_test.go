package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrAnswerSheetNotFound", err: ErrAnswerSheetNotFound, expected: true},
		{
			name:     "wrapped ErrAnswerSheetNotFound",
			err:      fmt.Errorf("failed to load sheet: %w", ErrAnswerSheetNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping not found",
			err:      NewStoreError(EntityAnswerSheet, "get", "lookup failed", ErrAnswerSheetNotFound),
			expected: true,
		},
		{name: "storage unavailable", err: ErrStorageUnavailable, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := NewStoreError(EntityAnswerSheet, "update", "write failed", ErrStorageUnavailable)
	assert.Equal(t,
		"update operation on answer_sheet failed: write failed: storage unavailable",
		wrapped.Error())
	assert.True(t, IsStorageUnavailable(wrapped))

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &storeErr))
	assert.Equal(t, "update", storeErr.Operation)

	bare := NewStoreError(EntityAnswerSheet, "list", "scan failed", nil)
	assert.Equal(t, "list operation on answer_sheet failed: scan failed", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
