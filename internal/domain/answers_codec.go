package domain

import (
	"encoding/json"
	"fmt"
)

// questionData is the persisted form of a QuestionRecord in the answers column.
//
// Older rows carry only isCorrect and no correctAnswer, and may omit
// selectedAnswer when it is NONE.
type questionData struct {
	QuestionNumber int     `json:"questionNumber"`
	SelectedAnswer *Answer `json:"selectedAnswer,omitempty"`
	CorrectAnswer  *Answer `json:"correctAnswer,omitempty"`
	IsCorrect      *bool   `json:"isCorrect,omitempty"`
}

// EncodeQuestions serializes questions for the answers column.
// Ungraded questions omit correctAnswer and isCorrect.
func EncodeQuestions(questions []QuestionRecord) ([]byte, error) {
	data := make([]questionData, len(questions))
	for i, q := range questions {
		selected := q.SelectedAnswer
		data[i] = questionData{
			QuestionNumber: q.QuestionNumber,
			SelectedAnswer: &selected,
		}
		if correct, ok := q.IsCorrect(); ok {
			answer := q.CorrectAnswer
			data[i].CorrectAnswer = &answer
			data[i].IsCorrect = &correct
		}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	return encoded, nil
}

// DecodeQuestions parses an answers column into exactly n records numbered 1..n.
//
// Legacy rows are upgraded: isCorrect=true without a correctAnswer becomes a
// grading against the selected answer, isCorrect=false without one is left
// ungraded. Positions missing from the payload come back unanswered, and
// out-of-range or repeated question numbers are dropped (first one wins).
func DecodeQuestions(raw []byte, n int) ([]QuestionRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidQuestionCount
	}

	var data []questionData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: answers: %v", ErrInvalidFormat, err)
		}
	}

	questions := freshQuestions(n)
	seen := make([]bool, n)
	for _, d := range data {
		if d.QuestionNumber < 1 || d.QuestionNumber > n || seen[d.QuestionNumber-1] {
			continue
		}
		seen[d.QuestionNumber-1] = true
		questions[d.QuestionNumber-1] = d.record()
	}

	return questions, nil
}

func (d questionData) record() QuestionRecord {
	q := NewQuestionRecord(d.QuestionNumber)
	if d.SelectedAnswer != nil {
		q.SelectedAnswer = *d.SelectedAnswer
	}

	switch {
	case d.CorrectAnswer != nil && d.CorrectAnswer.IsChoice():
		q.CorrectAnswer = *d.CorrectAnswer
	case d.IsCorrect != nil && *d.IsCorrect && q.IsAnswered():
		q.CorrectAnswer = q.SelectedAnswer
	}

	return q
}
