package postgres

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	// gorm writes questions and options through the association
	return q.db.WithContext(ctx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Questions.Options").
		Preload("Owner").
		Preload("SharedWith").
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	quiz.QuestionsCount = len(quiz.Questions)
	return &quiz, nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Select(clause.Associations).Delete(&models.Quiz{ID: id}).Error
}

func (q *QuizPostgreSQL) ListByUser(ctx context.Context, userID uint, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	var quizzes []*models.Quiz
	var total int64

	// owned plus shared-with, de-duplicated
	query := q.db.WithContext(ctx).Model(&models.Quiz{}).
		Joins("LEFT JOIN quiz_shares ON quiz_shares.quiz_id = quizzes.id").
		Where("quizzes.owner_id = ? OR quiz_shares.user_id = ?", userID, userID).
		Distinct("quizzes.*")
	query = applyQuizFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyQuizPaginationAndSort(query, filters)
	if err := query.Preload("Questions").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	for _, quiz := range quizzes {
		quiz.QuestionsCount = len(quiz.Questions)
	}
	return quizzes, total, nil
}

func (q *QuizPostgreSQL) ListPublic(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	var quizzes []*models.Quiz
	var total int64

	query := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("is_public = ?", true)
	query = applyQuizFilters(query, filters)

	if filters.Trending {
		query = query.Where(
			"(SELECT COALESCE(AVG(rating), 0) FROM quiz_ratings WHERE quiz_ratings.quiz_id = quizzes.id) > ?",
			repositories.TrendingMinRating,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyQuizPaginationAndSort(query, filters)
	if err := query.Preload("Owner").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	for _, quiz := range quizzes {
		rating, err := q.AverageRating(ctx, quiz.ID)
		if err != nil {
			return nil, 0, err
		}
		quiz.AvgRating = rating
	}
	return quizzes, total, nil
}

func (q *QuizPostgreSQL) GetQuestions(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Preload("Options").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuizPostgreSQL) SetVisibility(ctx context.Context, id uint, isPublic bool) error {
	result := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Update("is_public", isPublic)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) Share(ctx context.Context, quizID, userID uint) error {
	quiz := models.Quiz{ID: quizID}
	return q.db.WithContext(ctx).Model(&quiz).Association("SharedWith").Append(&models.User{ID: userID})
}

func (q *QuizPostgreSQL) IsSharedWith(ctx context.Context, quizID, userID uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).Table("quiz_shares").
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count > 0, err
}

func (q *QuizPostgreSQL) Rate(ctx context.Context, rating *models.QuizRating) error {
	return q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(rating).Error
}

func (q *QuizPostgreSQL) AverageRating(ctx context.Context, quizID uint) (float64, error) {
	var avg float64
	err := q.db.WithContext(ctx).Model(&models.QuizRating{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func applyQuizFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", *filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	return query
}

func applyQuizPaginationAndSort(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "topic", "difficulty", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
