package domain

// QuestionRecord holds the state of one question position in a sheet.
//
// CorrectAnswer is AnswerNone while the question is ungraded. Correctness is
// never stored: IsCorrect derives it from the two answers.
type QuestionRecord struct {
	QuestionNumber int
	SelectedAnswer Answer
	CorrectAnswer  Answer
}

// NewQuestionRecord returns an unanswered, ungraded record.
func NewQuestionRecord(number int) QuestionRecord {
	return QuestionRecord{QuestionNumber: number}
}

// IsAnswered reports whether an answer has been selected.
func (q QuestionRecord) IsAnswered() bool {
	return q.SelectedAnswer != AnswerNone
}

// IsGraded reports whether a correct answer has been attached.
func (q QuestionRecord) IsGraded() bool {
	return q.CorrectAnswer != AnswerNone
}

// IsCorrect returns whether the selection matches the correct answer.
// ok is false when the question is not graded.
func (q QuestionRecord) IsCorrect() (correct bool, ok bool) {
	if !q.IsGraded() {
		return false, false
	}
	return q.SelectedAnswer == q.CorrectAnswer, true
}

// freshQuestions builds n unanswered, ungraded records numbered 1..n.
func freshQuestions(n int) []QuestionRecord {
	questions := make([]QuestionRecord, n)
	for i := range questions {
		questions[i] = NewQuestionRecord(i + 1)
	}
	return questions
}
