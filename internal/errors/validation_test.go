package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessages(t *testing.T) {
	err := NewValidationError("topic", "is required", "")
	assert.Equal(t, "validation error on field 'topic': is required", err.Error())

	withRule := NewValidationErrorWithRule("rating", "must be between 1 and 5", "rating", 7)
	assert.Equal(t, "rating", withRule.Rule)
	assert.Equal(t, 7, withRule.Value)
}

func TestValidationErrorsAggregation(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("topic", "is required", nil))
	assert.Equal(t, "validation failed: topic is required", errs.Error())

	errs = append(errs, *NewValidationError("num_questions", "must be at most 20", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestToValidationErrors(t *testing.T) {
	type generateRequest struct {
		Topic        string `validate:"required"`
		NumQuestions int    `validate:"min=1,max=20"`
		Preference   string `validate:"question_preference"`
	}

	v := validator.New()
	require.NoError(t, v.RegisterValidation("question_preference", func(fl validator.FieldLevel) bool {
		return false
	}))

	err := v.Struct(generateRequest{NumQuestions: 50, Preference: "ESSAY"})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 3)

	byField := make(map[string]ValidationError, len(errs))
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "is required", byField["Topic"].Message)
	assert.Equal(t, "must be at most 20", byField["NumQuestions"].Message)
	assert.Equal(t, "must be a valid question preference (MCQ, TF, SHORT, FILL, MIX)", byField["Preference"].Message)
	assert.Equal(t, "question_preference", byField["Preference"].Rule)
}

func TestToValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, ToValidationErrors(assert.AnError))
}
