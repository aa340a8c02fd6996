package postgres

import (
	"context"

	"github.com/quizhippo/quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db      *gorm.DB
	quiz    repositories.QuizRepository
	attempt repositories.AttemptRepository
	user    repositories.UserRepository
	server  repositories.ServerRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:      db,
		quiz:    NewQuizPostgreSQL(db),
		attempt: NewAttemptPostgreSQL(db),
		user:    NewUserPostgreSQL(db),
		server:  NewServerPostgreSQL(db),
	}
}

func (r *gormRepository) Quiz() repositories.QuizRepository       { return r.quiz }
func (r *gormRepository) Attempt() repositories.AttemptRepository { return r.attempt }
func (r *gormRepository) User() repositories.UserRepository       { return r.user }
func (r *gormRepository) Server() repositories.ServerRepository   { return r.server }

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
