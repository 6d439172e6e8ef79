package store

import (
	"fmt"
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
)

// AnswerSheetRow is the persisted shape of an answer sheet, shared by the
// SQL store implementations. Timestamps are epoch milliseconds.
type AnswerSheetRow struct {
	ID                int64
	Name              string
	NumberOfQuestions int
	Answers           string
	CreatedAt         int64
	UpdatedAt         int64
}

// NewAnswerSheetRow validates sheet and converts it to its row form.
func NewAnswerSheetRow(sheet *domain.AnswerSheet) (AnswerSheetRow, error) {
	if sheet == nil {
		return AnswerSheetRow{}, fmt.Errorf("%w: nil answer sheet", ErrInvalidEntity)
	}
	if err := sheet.Validate(); err != nil {
		return AnswerSheetRow{}, err
	}

	answers, err := domain.EncodeQuestions(sheet.Questions)
	if err != nil {
		return AnswerSheetRow{}, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	return AnswerSheetRow{
		ID:                sheet.ID,
		Name:              sheet.Name,
		NumberOfQuestions: sheet.NumberOfQuestions,
		Answers:           string(answers),
		CreatedAt:         sheet.CreatedAt.UnixMilli(),
		UpdatedAt:         sheet.UpdatedAt.UnixMilli(),
	}, nil
}

// ToDomain decodes the row, upgrading legacy answers payloads on the way.
// Rows that cannot be decoded yield an error wrapping ErrInvalidEntity.
func (r AnswerSheetRow) ToDomain() (*domain.AnswerSheet, error) {
	questions, err := domain.DecodeQuestions([]byte(r.Answers), r.NumberOfQuestions)
	if err != nil {
		return nil, fmt.Errorf("%w: answer sheet %d: %v", ErrInvalidEntity, r.ID, err)
	}

	return &domain.AnswerSheet{
		ID:                r.ID,
		Name:              r.Name,
		NumberOfQuestions: r.NumberOfQuestions,
		Questions:         questions,
		CreatedAt:         time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:         time.UnixMilli(r.UpdatedAt).UTC(),
	}, nil
}
