package repositories

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/models"
)

type ServerRepository interface {
	Create(ctx context.Context, server *models.Server) error
	GetByID(ctx context.Context, id uint) (*models.Server, error)
	GetByCode(ctx context.Context, code string) (*models.Server, error)
	Delete(ctx context.Context, id uint) error

	// Membership
	AddMember(ctx context.Context, serverID, userID uint) error
	IsMember(ctx context.Context, serverID, userID uint) (bool, error)
	ListByMember(ctx context.Context, userID uint) ([]*models.Server, error)

	// Quizzes posted to the server
	AddQuiz(ctx context.Context, serverQuiz *models.ServerQuiz) error
	ListQuizzes(ctx context.Context, serverID uint) ([]*models.Quiz, error)
}
