package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is a multiple-choice option. AnswerNone means unanswered.
type Answer int

// Possible answer values
const (
	AnswerNone Answer = iota
	AnswerA
	AnswerB
	AnswerC
	AnswerD
)

// Choices lists the selectable options in display order.
var Choices = []Answer{AnswerA, AnswerB, AnswerC, AnswerD}

var answerNames = map[Answer]string{
	AnswerNone: "NONE",
	AnswerA:    "A",
	AnswerB:    "B",
	AnswerC:    "C",
	AnswerD:    "D",
}

// String returns the letter for the answer, or "NONE".
func (a Answer) String() string {
	if name, ok := answerNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Answer(%d)", int(a))
}

// IsValid reports whether a is one of the known values, NONE included.
func (a Answer) IsValid() bool {
	_, ok := answerNames[a]
	return ok
}

// IsChoice reports whether a is one of A-D.
func (a Answer) IsChoice() bool {
	return a.IsValid() && a != AnswerNone
}

// ParseAnswer converts a case-insensitive letter from Choices (or "NONE",
// "-" or "") into an Answer.
func ParseAnswer(s string) (Answer, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "NONE", "-", "":
		return AnswerNone, nil
	}
	for _, choice := range Choices {
		if choice.String() == name {
			return choice, nil
		}
	}
	return AnswerNone, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
}

// MarshalJSON encodes the answer by name.
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAnswer, int(a))
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an answer from its name.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: answer must be a string: %v", ErrInvalidFormat, err)
	}
	parsed, err := ParseAnswer(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
