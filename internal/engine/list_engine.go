package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/events"
	"github.com/ThanakornSe/AnswerNote/internal/platform/logger"
)

// ListRepository is the storage ListEngine follows and writes through.
type ListRepository interface {
	Observe() *events.Subscription[[]domain.AnswerSheet]
	// Sheets returns the most recently published collection.
	Sheets() []domain.AnswerSheet
	Insert(ctx context.Context, sheet domain.AnswerSheet) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ListEngine exposes the stored sheets as summaries, most recently updated
// first, and creates and deletes sheets.
type ListEngine struct {
	repo      ListRepository
	logger    *slog.Logger
	now       func() time.Time
	summaries *events.Subject[[]domain.SheetSummary]
	loading   *events.Subject[bool]
	sub       *events.Subscription[[]domain.AnswerSheet]
	done      chan struct{}

	// syncMu orders summary publications so an older collection never
	// replaces a newer one.
	syncMu sync.Mutex

	// inflightMu guards inflight, the number of running Create calls.
	inflightMu sync.Mutex
	inflight   int
}

// NewListEngine creates a ListEngine and starts following repo.
// If logger is nil, a default logger will be used.
func NewListEngine(repo ListRepository, logger *slog.Logger, opts ...Option) *ListEngine {
	if repo == nil {
		panic("repo cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := applyOptions(opts)
	sub := repo.Observe()

	// The replayed collection is already buffered, so the first summary list
	// is available before NewListEngine returns.
	initial := summarize(<-sub.C)

	e := &ListEngine{
		repo:      repo,
		logger:    logger.With("component", "list_engine"),
		now:       o.now,
		summaries: events.NewSubject(initial),
		loading:   events.NewSubject(false),
		sub:       sub,
		done:      make(chan struct{}),
	}
	go e.follow()
	return e
}

func (e *ListEngine) follow() {
	defer close(e.done)
	for range e.sub.C {
		e.sync()
	}
}

// sync publishes the summaries of the repository's latest collection.
func (e *ListEngine) sync() {
	e.syncMu.Lock()
	defer e.syncMu.Unlock()
	e.summaries.Publish(summarize(e.repo.Sheets()))
}

// trackCreate adjusts the in-flight Create count by delta and publishes
// whether any Create is still running.
func (e *ListEngine) trackCreate(delta int) {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	e.inflight += delta
	e.loading.Publish(e.inflight > 0)
}

// summarize maps sheets to summaries in updatedAt-descending order.
func summarize(sheets []domain.AnswerSheet) []domain.SheetSummary {
	sorted := make([]domain.AnswerSheet, len(sheets))
	copy(sorted, sheets)
	domain.SortByUpdatedDesc(sorted)

	out := make([]domain.SheetSummary, len(sorted))
	for i, sheet := range sorted {
		out[i] = sheet.Summary()
	}
	return out
}

// Observe subscribes to the summary list. The current list is delivered first.
// Received slices are shared between subscribers and must not be modified.
func (e *ListEngine) Observe() *events.Subscription[[]domain.SheetSummary] {
	return e.summaries.Subscribe()
}

// Summaries returns the current summary list.
func (e *ListEngine) Summaries() []domain.SheetSummary {
	return e.summaries.Value()
}

// ObserveLoading subscribes to the in-flight flag of Create. It stays true
// while any Create call is running.
func (e *ListEngine) ObserveLoading() *events.Subscription[bool] {
	return e.loading.Subscribe()
}

// Loading reports whether any Create call is running.
func (e *ListEngine) Loading() bool {
	return e.loading.Value()
}

// Create stores a new sheet named name with n unanswered questions and
// returns its ID. The name is trimmed; a blank name or n <= 0 is rejected.
// The new sheet is in Summaries by the time Create returns.
func (e *ListEngine) Create(ctx context.Context, name string, n int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domain.ErrEmptySheetName
	}
	if n <= 0 {
		return 0, domain.ErrInvalidQuestionCount
	}

	sheet, err := domain.NewAnswerSheet(name, n)
	if err != nil {
		return 0, err
	}
	now := e.now()
	sheet.CreatedAt = now
	sheet.UpdatedAt = now

	e.trackCreate(1)
	defer e.trackCreate(-1)

	id, err := e.repo.Insert(ctx, *sheet)
	if err != nil {
		log.Error("failed to create answer sheet", "name", name, "error", err)
		return 0, err
	}
	e.sync()

	log.Info("answer sheet created", "sheet_id", id, "number_of_questions", n)
	return id, nil
}

// Delete removes the sheet with id. Unknown IDs are not an error.
// The sheet is gone from Summaries by the time Delete returns.
func (e *ListEngine) Delete(ctx context.Context, id int64) error {
	if err := e.repo.Delete(ctx, id); err != nil {
		logger.FromContextOrDefault(ctx, e.logger).Error("failed to delete answer sheet",
			"sheet_id", id,
			"error", err)
		return err
	}
	e.sync()
	return nil
}

// Close stops following the repository and ends every subscription.
func (e *ListEngine) Close() {
	e.sub.Unsubscribe()
	<-e.done
	e.summaries.Close()
	e.loading.Close()
}
