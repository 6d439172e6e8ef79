package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/store"
)

// MockAnswerSheetStore implements store.AnswerSheetStore for testing.
// Without overrides it behaves like a real store backed by a map: IDs are
// assigned from 1 and sheets are copied on the way in and out.
type MockAnswerSheetStore struct {
	// Function fields for customizable behavior
	ListFn    func(ctx context.Context) ([]*domain.AnswerSheet, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.AnswerSheet, error)
	CreateFn  func(ctx context.Context, sheet *domain.AnswerSheet) (int64, error)
	UpdateFn  func(ctx context.Context, sheet *domain.AnswerSheet) error
	DeleteFn  func(ctx context.Context, id int64) error

	// Errors returned by the default implementation when set
	ListError   error
	GetError    error
	CreateError error
	UpdateError error
	DeleteError error

	mu          sync.Mutex
	sheets      map[int64]domain.AnswerSheet
	nextID      int64
	updateCalls []domain.AnswerSheet
}

// NewMockAnswerSheetStore creates a new mock store with initialized defaults
func NewMockAnswerSheetStore() *MockAnswerSheetStore {
	return &MockAnswerSheetStore{
		sheets: make(map[int64]domain.AnswerSheet),
		nextID: 1,
	}
}

var _ store.AnswerSheetStore = (*MockAnswerSheetStore)(nil)

// Seed stores sheet under its own ID, bypassing validation and error injection.
func (m *MockAnswerSheetStore) Seed(sheet domain.AnswerSheet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet.ID] = sheet.Clone()
	if sheet.ID >= m.nextID {
		m.nextID = sheet.ID + 1
	}
}

// Stored returns a copy of the sheet held under id.
func (m *MockAnswerSheetStore) Stored(id int64) (domain.AnswerSheet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheet, ok := m.sheets[id]
	return sheet.Clone(), ok
}

// UpdateCalls returns every sheet passed to a successful default Update, in order.
func (m *MockAnswerSheetStore) UpdateCalls() []domain.AnswerSheet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AnswerSheet, len(m.updateCalls))
	copy(out, m.updateCalls)
	return out
}

// SetUpdateError changes the injected Update error while writers may be running.
func (m *MockAnswerSheetStore) SetUpdateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateError = err
}

// List implements the AnswerSheetStore interface
func (m *MockAnswerSheetStore) List(ctx context.Context) ([]*domain.AnswerSheet, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	list := make([]domain.AnswerSheet, 0, len(m.sheets))
	for _, sheet := range m.sheets {
		list = append(list, sheet.Clone())
	}
	domain.SortByUpdatedDesc(list)

	out := make([]*domain.AnswerSheet, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out, nil
}

// GetByID implements the AnswerSheetStore interface
func (m *MockAnswerSheetStore) GetByID(ctx context.Context, id int64) (*domain.AnswerSheet, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}

	sheet, ok := m.sheets[id]
	if !ok {
		return nil, store.ErrAnswerSheetNotFound
	}
	clone := sheet.Clone()
	return &clone, nil
}

// Create implements the AnswerSheetStore interface
func (m *MockAnswerSheetStore) Create(ctx context.Context, sheet *domain.AnswerSheet) (int64, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sheet)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return 0, m.CreateError
	}
	if err := sheet.Validate(); err != nil {
		return 0, err
	}

	id := m.nextID
	m.nextID++
	stored := sheet.Clone()
	stored.ID = id
	m.sheets[id] = stored
	return id, nil
}

// Update implements the AnswerSheetStore interface
func (m *MockAnswerSheetStore) Update(ctx context.Context, sheet *domain.AnswerSheet) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, sheet)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	if err := sheet.Validate(); err != nil {
		return err
	}
	if _, ok := m.sheets[sheet.ID]; !ok {
		return store.ErrAnswerSheetNotFound
	}

	m.sheets[sheet.ID] = sheet.Clone()
	m.updateCalls = append(m.updateCalls, sheet.Clone())
	return nil
}

// Delete implements the AnswerSheetStore interface
func (m *MockAnswerSheetStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.sheets[id]; !ok {
		return store.ErrAnswerSheetNotFound
	}
	delete(m.sheets, id)
	return nil
}

// WithTx implements the AnswerSheetStore interface for transaction support.
// The mock has no transactions, so it returns itself.
func (m *MockAnswerSheetStore) WithTx(tx *sql.Tx) store.AnswerSheetStore {
	return m
}

// IDs returns the stored IDs in ascending order.
func (m *MockAnswerSheetStore) IDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.sheets))
	for id := range m.sheets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
