package engine

import "github.com/ThanakornSe/AnswerNote/internal/domain"

// State is one observable snapshot of a SheetEngine.
// The derived fields are computed from Sheet whenever a State is built and
// are never carried over from an earlier snapshot.
type State struct {
	// Sheet is the active sheet. Its ID is zero until a load succeeds.
	Sheet domain.AnswerSheet

	// Loaded is true once a sheet has been loaded from storage.
	Loaded bool

	// Loading is true while a load is in flight.
	Loading bool

	// NotFound is true when the last load found no sheet with the requested ID.
	NotFound bool

	// PersistErr holds the failure of the most recent write of this sheet,
	// and is cleared by the next successful one.
	PersistErr error

	AnsweredCount     int
	Score             domain.Score
	Percentage        float64
	IsComplete        bool
	AllAnsweredGraded bool
}

// newState builds a State for sheet with every derived field recomputed.
func newState(sheet domain.AnswerSheet) State {
	score := sheet.Score()
	return State{
		Sheet:             sheet,
		AnsweredCount:     sheet.AnsweredCount(),
		Score:             score,
		Percentage:        score.Percentage(),
		IsComplete:        sheet.IsComplete(),
		AllAnsweredGraded: sheet.AllAnsweredGraded(),
	}
}

// withSheet returns a copy of s showing sheet, keeping the load flags and
// the persist error.
func (s State) withSheet(sheet domain.AnswerSheet) State {
	next := newState(sheet)
	next.Loaded = s.Loaded
	next.Loading = s.Loading
	next.NotFound = s.NotFound
	next.PersistErr = s.PersistErr
	return next
}

// IsCorrect reports the derived correctness of question number, and whether
// that question is graded at all.
func (s State) IsCorrect(number int) (correct bool, graded bool) {
	q, ok := s.Sheet.Question(number)
	if !ok {
		return false, false
	}
	return q.IsCorrect()
}
