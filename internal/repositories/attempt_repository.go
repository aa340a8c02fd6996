package repositories

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/models"
)

// AttemptRepository stores one attempt row per (user, quiz). Upsert is the
// only write path: a retake overwrites the existing row in place.
type AttemptRepository interface {
	Upsert(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.QuizAttempt, error) // Include quiz, questions, options
	GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error)
	Delete(ctx context.Context, id uint) error

	// Query operations
	ListByUser(ctx context.Context, userID uint, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	AttemptedQuizIDs(ctx context.Context, userID uint) ([]uint, error)
}
