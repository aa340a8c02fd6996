package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quizhippo/quiz-service/internal/models"
)

func TestGradingService_EmptyAnswerIsAlwaysIncorrect(t *testing.T) {
	judge := new(mockJudge)
	grader := NewGradingService(judge, testLogger())

	question := &models.Question{ID: 1, Type: models.ShortAnswer, Answer: "Paris"}

	assert.False(t, grader.IsCorrect(context.Background(), question, ""))
	assert.False(t, grader.IsCorrect(context.Background(), question, "   "))

	// The judge must never be consulted for an empty submission.
	judge.AssertNotCalled(t, "JudgeShortAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func TestGradingService_LiteralMatchIsCaseInsensitive(t *testing.T) {
	judge := new(mockJudge)
	grader := NewGradingService(judge, testLogger())

	question := &models.Question{ID: 1, Type: models.TrueFalse, Answer: "True"}

	assert.True(t, grader.IsCorrect(context.Background(), question, "true"))
	assert.True(t, grader.IsCorrect(context.Background(), question, " TRUE "))
	assert.False(t, grader.IsCorrect(context.Background(), question, "false"))
}

func TestGradingService_NonShortTypesSkipJudge(t *testing.T) {
	judge := new(mockJudge)
	grader := NewGradingService(judge, testLogger())

	for _, qtype := range []models.QuestionType{models.TrueFalse, models.MultipleChoice, models.FillInBlank} {
		question := &models.Question{ID: 1, Type: qtype, Answer: "Mitochondria"}
		assert.True(t, grader.IsCorrect(context.Background(), question, "mitochondria"))
	}

	judge.AssertNotCalled(t, "JudgeShortAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func TestGradingService_ShortAnswerLenientJudge(t *testing.T) {
	judge := new(mockJudge)
	grader := NewGradingService(judge, testLogger())

	question := &models.Question{ID: 1, Type: models.ShortAnswer, Answer: "photosynthesis"}

	// Judge accepts a paraphrase the literal match would reject.
	judge.On("JudgeShortAnswer", mock.Anything, "the photo synthesis process", "photosynthesis").
		Return(true, nil).Once()
	assert.True(t, grader.IsCorrect(context.Background(), question, "the photo synthesis process"))

	// Judge rejects but the literal case-insensitive match still passes.
	judge.On("JudgeShortAnswer", mock.Anything, "Photosynthesis", "photosynthesis").
		Return(false, nil).Once()
	assert.True(t, grader.IsCorrect(context.Background(), question, "Photosynthesis"))

	// Both checks fail.
	judge.On("JudgeShortAnswer", mock.Anything, "osmosis", "photosynthesis").
		Return(false, nil).Once()
	assert.False(t, grader.IsCorrect(context.Background(), question, "osmosis"))

	judge.AssertExpectations(t)
}

func TestGradingService_JudgeFailureFailsClosed(t *testing.T) {
	judge := new(mockJudge)
	grader := NewGradingService(judge, testLogger())

	question := &models.Question{ID: 1, Type: models.ShortAnswer, Answer: "photosynthesis"}

	judge.On("JudgeShortAnswer", mock.Anything, "osmosis", "photosynthesis").
		Return(false, errors.New("model unavailable")).Once()
	assert.False(t, grader.IsCorrect(context.Background(), question, "osmosis"))

	// A judge outage must not lose the literal match.
	judge.On("JudgeShortAnswer", mock.Anything, "photosynthesis", "photosynthesis").
		Return(false, errors.New("model unavailable")).Once()
	assert.True(t, grader.IsCorrect(context.Background(), question, "photosynthesis"))

	judge.AssertExpectations(t)
}
