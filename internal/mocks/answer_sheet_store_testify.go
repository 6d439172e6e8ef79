package mocks

import (
	"context"
	"database/sql"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockAnswerSheetStore is a mock of store.AnswerSheetStore interface for use with testify/mock
type TestifyMockAnswerSheetStore struct {
	mock.Mock
}

var _ store.AnswerSheetStore = (*TestifyMockAnswerSheetStore)(nil)

// List is a mock implementation of store.AnswerSheetStore.List
func (m *TestifyMockAnswerSheetStore) List(ctx context.Context) ([]*domain.AnswerSheet, error) {
	args := m.Called(ctx)
	if sheets, ok := args.Get(0).([]*domain.AnswerSheet); ok {
		return sheets, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByID is a mock implementation of store.AnswerSheetStore.GetByID
func (m *TestifyMockAnswerSheetStore) GetByID(ctx context.Context, id int64) (*domain.AnswerSheet, error) {
	args := m.Called(ctx, id)
	if sheet, ok := args.Get(0).(*domain.AnswerSheet); ok {
		return sheet, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.AnswerSheetStore.Create
func (m *TestifyMockAnswerSheetStore) Create(ctx context.Context, sheet *domain.AnswerSheet) (int64, error) {
	args := m.Called(ctx, sheet)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

// Update is a mock implementation of store.AnswerSheetStore.Update
func (m *TestifyMockAnswerSheetStore) Update(ctx context.Context, sheet *domain.AnswerSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

// Delete is a mock implementation of store.AnswerSheetStore.Delete
func (m *TestifyMockAnswerSheetStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx is a mock implementation of store.AnswerSheetStore.WithTx
func (m *TestifyMockAnswerSheetStore) WithTx(tx *sql.Tx) store.AnswerSheetStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.AnswerSheetStore); ok {
		return ret
	}
	return m
}
