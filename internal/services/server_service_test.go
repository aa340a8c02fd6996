package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/validator"
)

func newServerFixture() (*MockRepository, ServerService) {
	repo := NewMockRepository()
	return repo, NewServerService(repo, validator.New(), testLogger())
}

func TestServerService_CreateEnrollsCreator(t *testing.T) {
	repo, svc := newServerFixture()

	repo.server.On("Create", mock.Anything, mock.AnythingOfType("*models.Server")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Server).ID = 3
		}).
		Return(nil)
	repo.server.On("AddMember", mock.Anything, uint(3), uint(7)).Return(nil)

	server, err := svc.Create(context.Background(), &CreateServerRequest{Name: "Bio 101"}, 7)

	assert.NoError(t, err)
	assert.Equal(t, uint(3), server.ID)
	assert.Len(t, server.Code, serverCodeLength)
	for _, c := range server.Code {
		assert.Contains(t, serverCodeAlphabet, string(c))
	}
	repo.server.AssertExpectations(t)
}

func TestServerService_JoinByCode(t *testing.T) {
	repo, svc := newServerFixture()

	repo.server.On("GetByCode", mock.Anything, "ABCD2345").
		Return(&models.Server{ID: 3, Name: "Bio 101", Code: "ABCD2345"}, nil)
	repo.server.On("AddMember", mock.Anything, uint(3), uint(9)).Return(nil)

	server, err := svc.JoinByCode(context.Background(), "ABCD2345", 9)
	assert.NoError(t, err)
	assert.Equal(t, uint(3), server.ID)
}

func TestServerService_JoinByUnknownCode(t *testing.T) {
	repo, svc := newServerFixture()

	repo.server.On("GetByCode", mock.Anything, "NOPE1234").Return(nil, gormNotFound())

	_, err := svc.JoinByCode(context.Background(), "NOPE1234", 9)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = svc.JoinByCode(context.Background(), "", 9)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestServerService_PostQuizRequiresMembershipAndOwnership(t *testing.T) {
	repo, svc := newServerFixture()

	ownerID := uint(7)
	repo.server.On("IsMember", mock.Anything, uint(3), uint(8)).Return(false, nil)
	repo.server.On("IsMember", mock.Anything, uint(3), uint(7)).Return(true, nil)
	repo.quiz.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Quiz{ID: 1, OwnerID: &ownerID}, nil)
	repo.server.On("AddQuiz", mock.Anything, mock.AnythingOfType("*models.ServerQuiz")).Return(nil)

	err := svc.PostQuiz(context.Background(), 3, 1, 8)
	assert.ErrorIs(t, err, ErrServerNotMember)

	err = svc.PostQuiz(context.Background(), 3, 1, 7)
	assert.NoError(t, err)
}

func TestServerService_ListQuizzesMembersOnly(t *testing.T) {
	repo, svc := newServerFixture()

	repo.server.On("IsMember", mock.Anything, uint(3), uint(9)).Return(true, nil)
	repo.server.On("IsMember", mock.Anything, uint(3), uint(8)).Return(false, nil)
	repo.server.On("ListQuizzes", mock.Anything, uint(3)).
		Return([]*models.Quiz{{ID: 1}}, nil)

	_, err := svc.ListQuizzes(context.Background(), 3, 8)
	assert.ErrorIs(t, err, ErrServerNotMember)

	quizzes, err := svc.ListQuizzes(context.Background(), 3, 9)
	assert.NoError(t, err)
	assert.Len(t, quizzes, 1)
}
