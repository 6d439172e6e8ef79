package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSheet(t *testing.T, name string, n int) AnswerSheet {
	t.Helper()
	sheet, err := NewAnswerSheet(name, n)
	require.NoError(t, err)
	return *sheet
}

// assertDerivedCorrectness checks that every graded question reports
// selected == correct and every ungraded question reports no correctness.
func assertDerivedCorrectness(t *testing.T, sheet AnswerSheet) {
	t.Helper()
	for _, q := range sheet.Questions {
		correct, ok := q.IsCorrect()
		if q.CorrectAnswer == AnswerNone {
			assert.False(t, ok, "question %d should be ungraded", q.QuestionNumber)
			continue
		}
		assert.True(t, ok, "question %d should be graded", q.QuestionNumber)
		assert.Equal(t, q.SelectedAnswer == q.CorrectAnswer, correct, "question %d", q.QuestionNumber)
	}
}

func TestNewAnswerSheet(t *testing.T) {
	t.Parallel()

	t.Run("valid sheet", func(t *testing.T) {
		t.Parallel()
		sheet, err := NewAnswerSheet("  Quiz  ", 3)
		require.NoError(t, err)

		assert.Equal(t, "Quiz", sheet.Name)
		assert.Equal(t, int64(0), sheet.ID)
		assert.Equal(t, 3, sheet.NumberOfQuestions)
		require.Len(t, sheet.Questions, 3)
		for i, q := range sheet.Questions {
			assert.Equal(t, i+1, q.QuestionNumber)
			assert.Equal(t, AnswerNone, q.SelectedAnswer)
			assert.False(t, q.IsGraded())
		}
		assert.False(t, sheet.CreatedAt.IsZero())
		assert.Equal(t, sheet.CreatedAt, sheet.UpdatedAt)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		_, err := NewAnswerSheet("   ", 3)
		assert.ErrorIs(t, err, ErrEmptySheetName)
		assert.True(t, IsInvalidInput(err))

		_, err = NewAnswerSheet("Quiz", 0)
		assert.ErrorIs(t, err, ErrInvalidQuestionCount)

		_, err = NewAnswerSheet("Quiz", -4)
		assert.ErrorIs(t, err, ErrInvalidQuestionCount)
	})
}

func TestAnswerSheetValidate(t *testing.T) {
	t.Parallel()

	valid := mustSheet(t, "Quiz", 2)
	require.NoError(t, valid.Validate())

	gap := valid.Clone()
	gap.Questions[1].QuestionNumber = 3
	assert.ErrorIs(t, gap.Validate(), ErrQuestionsMismatch)

	short := valid.Clone()
	short.NumberOfQuestions = 3
	assert.ErrorIs(t, short.Validate(), ErrQuestionsMismatch)

	bad := valid.Clone()
	bad.Questions[0].SelectedAnswer = Answer(17)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAnswer)
}

func TestWithNumberOfQuestions(t *testing.T) {
	t.Parallel()

	base := mustSheet(t, "Quiz", 5)
	base, err := base.WithSelectedAnswer(2, AnswerB)
	require.NoError(t, err)
	base, err = base.WithCorrectAnswer(2, AnswerB)
	require.NoError(t, err)

	for _, n := range []int{1, 2, 5, 17, 200} {
		next, err := base.WithNumberOfQuestions(n)
		require.NoError(t, err)
		assert.Equal(t, n, next.NumberOfQuestions)
		require.Len(t, next.Questions, n)
		for i, q := range next.Questions {
			assert.Equal(t, i+1, q.QuestionNumber)
			assert.False(t, q.IsAnswered())
			assert.False(t, q.IsGraded())
		}
		assert.Zero(t, next.AnsweredCount())
		assert.Equal(t, Score{}, next.Score())
	}

	_, err = base.WithNumberOfQuestions(0)
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)

	// the receiver is never modified
	assert.Equal(t, 5, base.NumberOfQuestions)
	assert.Equal(t, 1, base.AnsweredCount())
}

func TestWithSelectedAnswer(t *testing.T) {
	t.Parallel()

	sheet := mustSheet(t, "Quiz", 3)

	t.Run("round trip restores answered count", func(t *testing.T) {
		for q := 1; q <= 3; q++ {
			before := sheet.AnsweredCount()
			selected, err := sheet.WithSelectedAnswer(q, AnswerA)
			require.NoError(t, err)
			assert.Equal(t, before+1, selected.AnsweredCount())

			cleared, err := selected.WithSelectedAnswer(q, AnswerNone)
			require.NoError(t, err)
			assert.Equal(t, before, cleared.AnsweredCount())
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := sheet.WithSelectedAnswer(0, AnswerA)
		assert.ErrorIs(t, err, ErrQuestionOutOfRange)
		_, err = sheet.WithSelectedAnswer(4, AnswerA)
		assert.ErrorIs(t, err, ErrQuestionOutOfRange)
		_, err = sheet.WithSelectedAnswer(1, Answer(99))
		assert.ErrorIs(t, err, ErrInvalidAnswer)
	})

	t.Run("snapshots do not share questions", func(t *testing.T) {
		next, err := sheet.WithSelectedAnswer(1, AnswerC)
		require.NoError(t, err)
		assert.Equal(t, AnswerNone, sheet.Questions[0].SelectedAnswer)
		assert.Equal(t, AnswerC, next.Questions[0].SelectedAnswer)
	})

	t.Run("grading is kept and correctness follows the selection", func(t *testing.T) {
		graded, err := sheet.WithCorrectAnswer(1, AnswerB)
		require.NoError(t, err)
		graded, err = graded.WithSelectedAnswer(1, AnswerB)
		require.NoError(t, err)

		assert.Equal(t, AnswerB, graded.Questions[0].CorrectAnswer)
		correct, ok := graded.Questions[0].IsCorrect()
		assert.True(t, ok)
		assert.True(t, correct)
		assertDerivedCorrectness(t, graded)
	})
}

func TestWithCorrectAnswer(t *testing.T) {
	t.Parallel()

	sheet := mustSheet(t, "Single", 1)
	sheet, err := sheet.WithSelectedAnswer(1, AnswerC)
	require.NoError(t, err)

	graded, err := sheet.WithCorrectAnswer(1, AnswerC)
	require.NoError(t, err)
	assert.Equal(t, Score{Correct: 1, Graded: 1}, graded.Score())
	correct, ok := graded.Questions[0].IsCorrect()
	assert.True(t, ok)
	assert.True(t, correct)

	regraded, err := graded.WithCorrectAnswer(1, AnswerD)
	require.NoError(t, err)
	assert.Equal(t, Score{Correct: 0, Graded: 1}, regraded.Score())
	correct, ok = regraded.Questions[0].IsCorrect()
	assert.True(t, ok)
	assert.False(t, correct)

	// applying the same grading twice is the same as applying it once
	twice, err := regraded.WithCorrectAnswer(1, AnswerD)
	require.NoError(t, err)
	assert.Equal(t, regraded.Questions, twice.Questions)

	_, err = sheet.WithCorrectAnswer(1, AnswerNone)
	assert.ErrorIs(t, err, ErrNoneCorrectAnswer)
	_, err = sheet.WithCorrectAnswer(2, AnswerA)
	assert.ErrorIs(t, err, ErrQuestionOutOfRange)

	assertDerivedCorrectness(t, regraded)
}

func TestCleared(t *testing.T) {
	t.Parallel()

	sheet := mustSheet(t, "Quiz", 3)
	sheet, _ = sheet.WithSelectedAnswer(1, AnswerA)
	sheet, _ = sheet.WithSelectedAnswer(2, AnswerB)
	sheet, _ = sheet.WithCorrectAnswer(1, AnswerA)

	cleared := sheet.Cleared()
	assert.Equal(t, 3, cleared.NumberOfQuestions)
	assert.Zero(t, cleared.AnsweredCount())
	assert.Equal(t, AnswerA, cleared.Questions[0].CorrectAnswer, "grading is kept")
	assert.Equal(t, Score{Correct: 0, Graded: 1}, cleared.Score())
	assertDerivedCorrectness(t, cleared)

	assert.Equal(t, 2, sheet.AnsweredCount(), "receiver is unchanged")
}

func TestDerivedStatistics(t *testing.T) {
	t.Parallel()

	// Quiz with 3 questions, two answered
	sheet := mustSheet(t, "Quiz", 3)
	sheet, _ = sheet.WithSelectedAnswer(1, AnswerA)
	sheet, _ = sheet.WithSelectedAnswer(2, AnswerB)
	assert.Equal(t, 2, sheet.AnsweredCount())
	assert.False(t, sheet.IsComplete())
	assert.False(t, sheet.AllAnsweredGraded())

	sheet, _ = sheet.WithCorrectAnswer(1, AnswerA)
	sheet, _ = sheet.WithCorrectAnswer(2, AnswerC)
	assert.True(t, sheet.AllAnsweredGraded())
	assert.InDelta(t, 50.0, sheet.Score().Percentage(), 0.0001)

	sheet, _ = sheet.WithSelectedAnswer(3, AnswerD)
	assert.True(t, sheet.IsComplete())
	assert.False(t, sheet.AllAnsweredGraded())

	resized, err := sheet.WithNumberOfQuestions(2)
	require.NoError(t, err)
	assert.Zero(t, resized.AnsweredCount())
	assert.Equal(t, []QuestionRecord{NewQuestionRecord(1), NewQuestionRecord(2)}, resized.Questions)

	assert.False(t, AnswerSheet{}.IsComplete(), "an empty sheet is never complete")
	assert.Zero(t, Score{}.Percentage())
}

func TestExportSummary(t *testing.T) {
	t.Parallel()

	sheet := mustSheet(t, "T", 2)
	sheet, err := sheet.WithSelectedAnswer(1, AnswerA)
	require.NoError(t, err)

	rule := strings.Repeat("=", 40)
	want := "T (2 Questions)\n" + rule + "\n\n1. A\n2. -\n\n" + rule + "\nTotal Answered: 1/2\n"

	assert.Equal(t, want, sheet.ExportSummary())
	assert.Equal(t, sheet.ExportSummary(), sheet.ExportSummary())

	// grading and timestamps do not show up in the export
	graded, _ := sheet.WithCorrectAnswer(2, AnswerB)
	graded = graded.Touched(time.Now().Add(time.Hour))
	assert.Equal(t, want, graded.ExportSummary())
}

func TestSortByUpdatedDesc(t *testing.T) {
	t.Parallel()

	base := time.UnixMilli(1_700_000_000_000).UTC()
	sheets := []AnswerSheet{
		{ID: 1, UpdatedAt: base},
		{ID: 2, UpdatedAt: base.Add(time.Minute)},
		{ID: 3, UpdatedAt: base},
	}

	SortByUpdatedDesc(sheets)

	ids := []int64{sheets[0].ID, sheets[1].ID, sheets[2].ID}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	sheet := mustSheet(t, "Quiz", 4)
	sheet.ID = 9
	sheet, _ = sheet.WithSelectedAnswer(3, AnswerC)

	summary := sheet.Summary()
	assert.Equal(t, int64(9), summary.ID)
	assert.Equal(t, "Quiz", summary.Name)
	assert.Equal(t, 4, summary.NumberOfQuestions)
	assert.Equal(t, 1, summary.AnsweredCount)
	assert.Equal(t, sheet.UpdatedAt, summary.UpdatedAt)
}
