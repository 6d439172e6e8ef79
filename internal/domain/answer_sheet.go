package domain

import (
	"slices"
	"strings"
	"time"
)

// AnswerSheet is the aggregate for one answer sheet.
// ID is zero until the sheet has been stored.
type AnswerSheet struct {
	ID                int64
	Name              string
	NumberOfQuestions int
	Questions         []QuestionRecord
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Score is the grading tally of a sheet.
type Score struct {
	Correct int
	Graded  int
}

// Percentage returns Correct/Graded as a percentage, or 0 when nothing is graded.
func (s Score) Percentage() float64 {
	if s.Graded == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Graded) * 100
}

// NewAnswerSheet creates an unsaved sheet with n unanswered, ungraded questions.
// The name is trimmed; blank names and non-positive counts are rejected.
func NewAnswerSheet(name string, n int) (*AnswerSheet, error) {
	now := Now()
	sheet := &AnswerSheet{
		Name:              strings.TrimSpace(name),
		NumberOfQuestions: n,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if n > 0 {
		sheet.Questions = freshQuestions(n)
	}

	if err := sheet.Validate(); err != nil {
		return nil, err
	}

	return sheet, nil
}

// Now returns the current UTC time at the millisecond precision used by storage.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Validate checks the sheet invariants: a non-blank name, a positive count
// and a question list numbered densely from 1 to NumberOfQuestions.
func (s *AnswerSheet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptySheetName
	}

	if s.NumberOfQuestions <= 0 {
		return ErrInvalidQuestionCount
	}

	if len(s.Questions) != s.NumberOfQuestions {
		return ErrQuestionsMismatch
	}

	for i, q := range s.Questions {
		if q.QuestionNumber != i+1 {
			return ErrQuestionsMismatch
		}
		if !q.SelectedAnswer.IsValid() || !q.CorrectAnswer.IsValid() {
			return ErrInvalidAnswer
		}
	}

	return nil
}

// Clone returns a deep copy of the sheet.
func (s AnswerSheet) Clone() AnswerSheet {
	s.Questions = slices.Clone(s.Questions)
	return s
}

// Question returns the record for a 1-based question number.
func (s AnswerSheet) Question(number int) (QuestionRecord, bool) {
	if number < 1 || number > len(s.Questions) {
		return QuestionRecord{}, false
	}
	return s.Questions[number-1], true
}

// WithSelectedAnswer returns a copy with the selection of one question replaced.
// Grading is left as it is.
func (s AnswerSheet) WithSelectedAnswer(number int, answer Answer) (AnswerSheet, error) {
	if !answer.IsValid() {
		return s, ErrInvalidAnswer
	}
	if number < 1 || number > s.NumberOfQuestions || number > len(s.Questions) {
		return s, ErrQuestionOutOfRange
	}

	next := s.Clone()
	next.Questions[number-1].SelectedAnswer = answer
	return next, nil
}

// WithCorrectAnswer returns a copy with one question graded against answer,
// replacing any earlier grading.
func (s AnswerSheet) WithCorrectAnswer(number int, answer Answer) (AnswerSheet, error) {
	if !answer.IsValid() {
		return s, ErrInvalidAnswer
	}
	if answer == AnswerNone {
		return s, ErrNoneCorrectAnswer
	}
	if number < 1 || number > s.NumberOfQuestions || number > len(s.Questions) {
		return s, ErrQuestionOutOfRange
	}

	next := s.Clone()
	next.Questions[number-1].CorrectAnswer = answer
	return next, nil
}

// WithNumberOfQuestions returns a copy whose questions are replaced by n fresh
// records. All selections and grading are discarded.
func (s AnswerSheet) WithNumberOfQuestions(n int) (AnswerSheet, error) {
	if n <= 0 {
		return s, ErrInvalidQuestionCount
	}

	next := s
	next.NumberOfQuestions = n
	next.Questions = freshQuestions(n)
	return next, nil
}

// Cleared returns a copy with every selection reset to NONE.
// The question count and any grading are kept.
func (s AnswerSheet) Cleared() AnswerSheet {
	next := s.Clone()
	for i := range next.Questions {
		next.Questions[i].SelectedAnswer = AnswerNone
	}
	return next
}

// Touched returns a copy with UpdatedAt set to at.
func (s AnswerSheet) Touched(at time.Time) AnswerSheet {
	s.UpdatedAt = at
	return s
}

// AnsweredCount is the number of questions with a selection.
func (s AnswerSheet) AnsweredCount() int {
	count := 0
	for _, q := range s.Questions {
		if q.IsAnswered() {
			count++
		}
	}
	return count
}

// Score tallies graded questions and those answered correctly.
func (s AnswerSheet) Score() Score {
	var score Score
	for _, q := range s.Questions {
		correct, graded := q.IsCorrect()
		if !graded {
			continue
		}
		score.Graded++
		if correct {
			score.Correct++
		}
	}
	return score
}

// IsComplete reports whether every question of a non-empty sheet is answered.
func (s AnswerSheet) IsComplete() bool {
	return s.NumberOfQuestions > 0 && s.AnsweredCount() == s.NumberOfQuestions
}

// AllAnsweredGraded reports whether at least one question is answered and
// every answered question has been graded.
func (s AnswerSheet) AllAnsweredGraded() bool {
	answered := 0
	for _, q := range s.Questions {
		if !q.IsAnswered() {
			continue
		}
		answered++
		if !q.IsGraded() {
			return false
		}
	}
	return answered > 0
}

// Summary returns the overview projection of the sheet.
func (s AnswerSheet) Summary() SheetSummary {
	return SheetSummary{
		ID:                s.ID,
		Name:              s.Name,
		NumberOfQuestions: s.NumberOfQuestions,
		AnsweredCount:     s.AnsweredCount(),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// SheetSummary is what the sheet overview shows for each sheet.
type SheetSummary struct {
	ID                int64
	Name              string
	NumberOfQuestions int
	AnsweredCount     int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SortByUpdatedDesc orders sheets most recently updated first; ties go to the higher ID.
func SortByUpdatedDesc(sheets []AnswerSheet) {
	slices.SortStableFunc(sheets, func(a, b AnswerSheet) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
