package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when an operation is invoked with arguments
	// it must refuse. Specific errors below wrap it.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFormat is returned when persisted data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")
)

// Answer sheet validation errors
var (
	// ErrQuestionOutOfRange is returned when a question number is not in 1..N.
	ErrQuestionOutOfRange = fmt.Errorf("%w: question number out of range", ErrInvalidInput)

	// ErrInvalidQuestionCount is returned when the number of questions is not positive.
	ErrInvalidQuestionCount = fmt.Errorf("%w: number of questions must be positive", ErrInvalidInput)

	// ErrInvalidAnswer is returned for values outside {A, B, C, D, NONE}.
	ErrInvalidAnswer = fmt.Errorf("%w: unknown answer", ErrInvalidInput)

	// ErrNoneCorrectAnswer is returned when NONE is used as a correct answer.
	ErrNoneCorrectAnswer = fmt.Errorf("%w: correct answer cannot be NONE", ErrInvalidInput)

	// ErrEmptySheetName is returned when an answer sheet name is blank.
	ErrEmptySheetName = fmt.Errorf("%w: answer sheet name cannot be empty", ErrInvalidInput)

	// ErrQuestionsMismatch is returned when the question list does not match
	// the declared number of questions or is not numbered 1..N.
	ErrQuestionsMismatch = fmt.Errorf("%w: questions do not match number of questions", ErrInvalidInput)
)

// IsInvalidInput reports whether err is, or wraps, an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
