package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quizhippo/quiz-service/internal/models"
)

// ShortAnswerJudge performs the lenient free-text comparison for short
// answer questions. ai.Judge is the production implementation.
type ShortAnswerJudge interface {
	JudgeShortAnswer(ctx context.Context, submitted, canonical string) (bool, error)
}

// GradingService decides correctness for a single question. It never
// returns an error: a judge failure grades the answer as incorrect.
type GradingService interface {
	IsCorrect(ctx context.Context, question *models.Question, submitted string) bool
}

type gradingService struct {
	judge  ShortAnswerJudge
	logger *slog.Logger
}

func NewGradingService(judge ShortAnswerJudge, logger *slog.Logger) GradingService {
	return &gradingService{
		judge:  judge,
		logger: logger,
	}
}

// IsCorrect grades one submitted answer. Short answer questions pass if
// either the lenient judge accepts the answer or it matches the canonical
// answer literally (case-insensitive); every other type uses the literal
// match alone. A question counts at most once no matter how many checks
// pass.
func (s *gradingService) IsCorrect(ctx context.Context, question *models.Question, submitted string) bool {
	trimmed := strings.TrimSpace(submitted)
	if trimmed == "" {
		return false
	}

	literal := strings.EqualFold(trimmed, strings.TrimSpace(question.Answer))

	if question.Type != models.ShortAnswer {
		return literal
	}

	lenient, err := s.judge.JudgeShortAnswer(ctx, trimmed, question.Answer)
	if err != nil {
		// Fail closed: a judge outage must not propagate out of grading.
		s.logger.Warn("Short answer judge failed, grading by literal match only",
			"question_id", question.ID,
			"error", err)
		lenient = false
	}

	return lenient || literal
}
