package postgres

import (
	"context"
	"errors"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

// Upsert writes the single attempt row for (user, quiz): a fresh submission
// inserts, a retake overwrites score, answers and timestamps in place.
// Read-modify-write without locking; concurrent retakes are last-write-wins.
func (a *AttemptPostgreSQL) Upsert(ctx context.Context, attempt *models.QuizAttempt) error {
	var existing models.QuizAttempt
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", attempt.UserID, attempt.QuizID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.db.WithContext(ctx).Create(attempt).Error
		}
		return err
	}

	existing.Score = attempt.Score
	existing.Answers = attempt.Answers
	if err := a.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return err
	}
	*attempt = existing
	return nil
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Preload("User").
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Quiz.Questions.Options").
		First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Delete(ctx context.Context, id uint) error {
	return a.db.WithContext(ctx).Delete(&models.QuizAttempt{}, id).Error
}

func (a *AttemptPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	var attempts []*models.QuizAttempt
	var total int64

	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Where("user_id = ?", userID)
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("updated_at DESC").Preload("Quiz").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (a *AttemptPostgreSQL) AttemptedQuizIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Pluck("quiz_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
