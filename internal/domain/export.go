package domain

import (
	"strconv"
	"strings"
)

const exportRuleWidth = 40

// ExportSummary renders the sheet as shareable plain text:
//
//	{name} ({N} Questions)
//	========================================
//
//	1. A
//	2. -
//
//	========================================
//	Total Answered: 1/2
//
// The output depends only on the sheet's name, count and selections.
func (s AnswerSheet) ExportSummary() string {
	rule := strings.Repeat("=", exportRuleWidth)

	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(s.NumberOfQuestions))
	b.WriteString(" Questions)\n")
	b.WriteString(rule)
	b.WriteString("\n\n")

	for _, q := range s.Questions {
		b.WriteString(strconv.Itoa(q.QuestionNumber))
		b.WriteString(". ")
		if q.IsAnswered() {
			b.WriteString(q.SelectedAnswer.String())
		} else {
			b.WriteString("-")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\nTotal Answered: ")
	b.WriteString(strconv.Itoa(s.AnsweredCount()))
	b.WriteString("/")
	b.WriteString(strconv.Itoa(s.NumberOfQuestions))
	b.WriteString("\n")

	return b.String()
}
