package validator

import (
	"fmt"
	"strings"

	"github.com/quizhippo/quiz-service/internal/models"
)

// QuestionValidator checks generated questions before they are persisted.
// Generation output is untrusted, so these checks guard the data model
// rather than reject user input: a failing question is dropped or fixed by
// the caller, never surfaced as a request error.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks one question for structural problems
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text cannot be empty")
	}

	switch q.Type {
	case models.MultipleChoice:
		return v.validateMultipleChoice(q)
	case models.TrueFalse:
		return v.validateTrueFalse(q)
	case models.ShortAnswer, models.FillInBlank:
		return nil
	default:
		return fmt.Errorf("unknown question type: %s", q.Type)
	}
}

// NormalizeDifficulty clamps a difficulty value into the 1-5 range
func (v *QuestionValidator) NormalizeDifficulty(difficulty int) int {
	if difficulty < 1 {
		return 1
	}
	if difficulty > 5 {
		return 5
	}
	return difficulty
}

func (v *QuestionValidator) validateMultipleChoice(q *models.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("multiple choice question needs at least 2 options, got %d", len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option %d is empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateTrueFalse(q *models.Question) error {
	answer := strings.ToLower(strings.TrimSpace(q.Answer))
	if answer != "true" && answer != "false" {
		return fmt.Errorf("true/false answer must be 'true' or 'false', got %q", q.Answer)
	}
	return nil
}
