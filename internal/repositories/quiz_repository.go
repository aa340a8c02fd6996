package repositories

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/models"
)

// QuizRepository persists quizzes together with their questions and MCQ
// options. Questions and options are always written through the owning
// quiz; deleting a quiz cascades to both.
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) // Include questions, options, owner, shared users
	Delete(ctx context.Context, id uint) error

	// Query operations
	ListByUser(ctx context.Context, userID uint, filters QuizFilters) ([]*models.Quiz, int64, error) // owned + shared with
	ListPublic(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	GetQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) // ordered by position

	// Sharing and visibility
	SetVisibility(ctx context.Context, id uint, isPublic bool) error
	Share(ctx context.Context, quizID, userID uint) error
	IsSharedWith(ctx context.Context, quizID, userID uint) (bool, error)

	// Ratings
	Rate(ctx context.Context, rating *models.QuizRating) error
	AverageRating(ctx context.Context, quizID uint) (float64, error)
}
