package postgres

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServerPostgreSQL struct {
	db *gorm.DB
}

func NewServerPostgreSQL(db *gorm.DB) repositories.ServerRepository {
	return &ServerPostgreSQL{db: db}
}

func (s *ServerPostgreSQL) Create(ctx context.Context, server *models.Server) error {
	return s.db.WithContext(ctx).Create(server).Error
}

func (s *ServerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Server, error) {
	var server models.Server
	if err := s.db.WithContext(ctx).Preload("Members").Preload("Creator").First(&server, id).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

func (s *ServerPostgreSQL) GetByCode(ctx context.Context, code string) (*models.Server, error) {
	var server models.Server
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

func (s *ServerPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Select(clause.Associations).Delete(&models.Server{ID: id}).Error
}

func (s *ServerPostgreSQL) AddMember(ctx context.Context, serverID, userID uint) error {
	server := models.Server{ID: serverID}
	return s.db.WithContext(ctx).Model(&server).Association("Members").Append(&models.User{ID: userID})
}

func (s *ServerPostgreSQL) IsMember(ctx context.Context, serverID, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("server_members").
		Where("server_id = ? AND user_id = ?", serverID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *ServerPostgreSQL) ListByMember(ctx context.Context, userID uint) ([]*models.Server, error) {
	var servers []*models.Server
	if err := s.db.WithContext(ctx).
		Joins("JOIN server_members ON server_members.server_id = servers.id").
		Where("server_members.user_id = ?", userID).
		Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (s *ServerPostgreSQL) AddQuiz(ctx context.Context, serverQuiz *models.ServerQuiz) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(serverQuiz).Error
}

func (s *ServerPostgreSQL) ListQuizzes(ctx context.Context, serverID uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := s.db.WithContext(ctx).
		Joins("JOIN server_quizzes ON server_quizzes.quiz_id = quizzes.id").
		Where("server_quizzes.server_id = ?", serverID).
		Preload("Questions").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
