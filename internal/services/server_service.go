package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"github.com/quizhippo/quiz-service/internal/validator"
)

const (
	serverCodeLength   = 8
	serverCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	serverCodeRetries  = 5
)

type CreateServerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// ServerService manages shared spaces that members join by invite code.
type ServerService interface {
	Create(ctx context.Context, req *CreateServerRequest, creatorID uint) (*models.Server, error)
	Get(ctx context.Context, serverID, userID uint) (*models.Server, error)
	JoinByCode(ctx context.Context, code string, userID uint) (*models.Server, error)
	ListMine(ctx context.Context, userID uint) ([]*models.Server, error)
	PostQuiz(ctx context.Context, serverID, quizID, userID uint) error
	ListQuizzes(ctx context.Context, serverID, userID uint) ([]*models.Quiz, error)
}

type serverService struct {
	repo      repositories.Repository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewServerService(repo repositories.Repository, v *validator.Validator, logger *slog.Logger) ServerService {
	return &serverService{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// Create stores a new server under a fresh invite code and enrolls the
// creator as its first member.
func (s *serverService) Create(ctx context.Context, req *CreateServerRequest, creatorID uint) (*models.Server, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	var server *models.Server
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Codes are random; retry on the rare collision with an existing
		// server.
		for attempt := 0; attempt < serverCodeRetries; attempt++ {
			code, err := generateServerCode()
			if err != nil {
				return err
			}

			candidate := &models.Server{
				Name:        req.Name,
				Description: req.Description,
				Code:        code,
				CreatedBy:   creatorID,
			}
			if err := tx.Server().Create(ctx, candidate); err != nil {
				if attempt < serverCodeRetries-1 {
					continue
				}
				return fmt.Errorf("failed to create server: %w", err)
			}
			server = candidate
			return tx.Server().AddMember(ctx, server.ID, creatorID)
		}
		return fmt.Errorf("failed to create server")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Server created",
		"server_id", server.ID,
		"code", server.Code,
		"creator_id", creatorID)
	return server, nil
}

func (s *serverService) Get(ctx context.Context, serverID, userID uint) (*models.Server, error) {
	server, err := s.repo.Server().GetByID(ctx, serverID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrServerNotFound
		}
		return nil, fmt.Errorf("failed to get server: %w", err)
	}

	member, err := s.repo.Server().IsMember(ctx, serverID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrServerNotMember
	}
	return server, nil
}

func (s *serverService) JoinByCode(ctx context.Context, code string, userID uint) (*models.Server, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	server, err := s.repo.Server().GetByCode(ctx, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to look up server code: %w", err)
	}

	if err := s.repo.Server().AddMember(ctx, server.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to join server: %w", err)
	}

	s.logger.Info("User joined server", "server_id", server.ID, "user_id", userID)
	return server, nil
}

func (s *serverService) ListMine(ctx context.Context, userID uint) ([]*models.Server, error) {
	return s.repo.Server().ListByMember(ctx, userID)
}

// PostQuiz publishes a member's quiz to the server feed. The poster must
// be a member and must own the quiz.
func (s *serverService) PostQuiz(ctx context.Context, serverID, quizID, userID uint) error {
	member, err := s.repo.Server().IsMember(ctx, serverID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return ErrServerNotMember
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.IsPublic && (quiz.OwnerID == nil || *quiz.OwnerID != userID) {
		return ErrQuizNotOwned
	}

	if err := s.repo.Server().AddQuiz(ctx, &models.ServerQuiz{
		ServerID: serverID,
		QuizID:   quizID,
		AddedBy:  userID,
	}); err != nil {
		return fmt.Errorf("failed to post quiz to server: %w", err)
	}

	s.logger.Info("Quiz posted to server",
		"server_id", serverID,
		"quiz_id", quizID,
		"user_id", userID)
	return nil
}

func (s *serverService) ListQuizzes(ctx context.Context, serverID, userID uint) ([]*models.Quiz, error) {
	member, err := s.repo.Server().IsMember(ctx, serverID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrServerNotMember
	}
	return s.repo.Server().ListQuizzes(ctx, serverID)
}

func generateServerCode() (string, error) {
	buf := make([]byte, serverCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate server code: %w", err)
	}
	for i, b := range buf {
		buf[i] = serverCodeAlphabet[int(b)%len(serverCodeAlphabet)]
	}
	return string(buf), nil
}
