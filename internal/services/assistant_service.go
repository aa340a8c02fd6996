package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizhippo/quiz-service/internal/ai"
)

// AssistantService fronts the study assistant. Sessions are keyed per
// user so one user's conversation never leaks into another's.
type AssistantService interface {
	Chat(ctx context.Context, userID uint, message string) (string, error)
}

type assistantService struct {
	assistant *ai.Assistant
	logger    *slog.Logger
}

func NewAssistantService(assistant *ai.Assistant, logger *slog.Logger) AssistantService {
	return &assistantService{
		assistant: assistant,
		logger:    logger,
	}
}

func (s *assistantService) Chat(ctx context.Context, userID uint, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message cannot be empty", ErrValidationFailed)
	}

	sessionID := fmt.Sprintf("user:%d", userID)
	reply, err := s.assistant.Chat(ctx, sessionID, message)
	if err != nil {
		s.logger.Error("Assistant chat failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("assistant chat failed: %w", err)
	}
	return reply, nil
}
