package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/quizhippo/quiz-service/internal/events"
	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/repositories"
)

// AttemptService scores quiz submissions and keeps the single stored
// attempt per (user, quiz) up to date.
type AttemptService interface {
	Submit(ctx context.Context, userID, quizID uint, answers map[uint]string) (*models.AttemptResult, error)
	Get(ctx context.Context, attemptID, userID uint) (*models.QuizAttempt, error)
	GetResult(ctx context.Context, attemptID, userID uint) (*models.AttemptResult, error)
	ListByUser(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
	IncorrectReport(ctx context.Context, attemptID, userID uint) ([]models.IncorrectAnswer, error)
}

type attemptService struct {
	repo      repositories.Repository
	grader    GradingService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAttemptService(repo repositories.Repository, grader GradingService, publisher events.EventPublisher, logger *slog.Logger) AttemptService {
	return &attemptService{
		repo:      repo,
		grader:    grader,
		publisher: publisher,
		logger:    logger,
	}
}

// ===== SCORING =====

// Submit grades a full submission against the quiz's questions in stored
// order and upserts the attempt row. Retakes overwrite the previous score,
// answers and timestamp; there is never more than one attempt per
// (user, quiz).
func (s *attemptService) Submit(ctx context.Context, userID, quizID uint, answers map[uint]string) (*models.AttemptResult, error) {
	s.logger.Info("Scoring quiz submission",
		"quiz_id", quizID,
		"user_id", userID,
		"answer_count", len(answers))

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := s.repo.Quiz().GetQuestions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	score := 0
	stored := make(map[string]string, len(answers))
	for _, q := range questions {
		submitted := answers[q.ID]
		stored[strconv.FormatUint(uint64(q.ID), 10)] = submitted
		if s.grader.IsCorrect(ctx, q, submitted) {
			score++
		}
	}

	answersJSON, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	attempt := &models.QuizAttempt{
		UserID:  userID,
		QuizID:  quizID,
		Score:   score,
		Answers: answersJSON,
	}
	if err := s.repo.Attempt().Upsert(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to store attempt: %w", err)
	}

	event := events.NewAttemptCompletedEvent(
		attempt.ID, quizID, quiz.Topic, userID, score, len(questions), time.Now())
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		// Event delivery is best effort; the attempt is already stored.
		s.logger.Error("Failed to publish attempt completed event",
			"attempt_id", attempt.ID,
			"error", err)
	}

	result := buildAttemptResult(attempt, questions, stored)

	s.logger.Info("Quiz submission scored",
		"attempt_id", attempt.ID,
		"quiz_id", quizID,
		"score", score,
		"total", len(questions))

	return result, nil
}

// ===== RETRIEVAL =====

func (s *attemptService) Get(ctx context.Context, attemptID, userID uint) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByIDWithDetails(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, ErrAttemptAccessDenied
	}
	return attempt, nil
}

func (s *attemptService) GetResult(ctx context.Context, attemptID, userID uint) (*models.AttemptResult, error) {
	attempt, err := s.Get(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.Quiz().GetQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz questions: %w", err)
	}

	stored, err := decodeStoredAnswers(attempt.Answers)
	if err != nil {
		return nil, err
	}

	return buildAttemptResult(attempt, questions, stored), nil
}

func (s *attemptService) ListByUser(ctx context.Context, userID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	return s.repo.Attempt().ListByUser(ctx, userID, filters)
}

// IncorrectReport rebuilds the incorrect-answer rows for a stored attempt.
func (s *attemptService) IncorrectReport(ctx context.Context, attemptID, userID uint) ([]models.IncorrectAnswer, error) {
	result, err := s.GetResult(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	return result.Incorrect, nil
}

// ===== HELPERS =====

func decodeStoredAnswers(raw []byte) (map[string]string, error) {
	stored := make(map[string]string)
	if len(raw) == 0 {
		return stored, nil
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode stored answers: %w", err)
	}
	return stored, nil
}

// buildAttemptResult derives the incorrect-answer report by plain string
// comparison of the stored answers against the canonical ones. The report
// deliberately does not consult the lenient judge: it surfaces every
// literal mismatch for review. The incorrect count is derived from the
// score instead, so correct plus incorrect always equals the question
// total even when the judge accepted a non-literal answer.
func buildAttemptResult(attempt *models.QuizAttempt, questions []*models.Question, stored map[string]string) *models.AttemptResult {
	var incorrect []models.IncorrectAnswer
	for _, q := range questions {
		submitted := stored[strconv.FormatUint(uint64(q.ID), 10)]
		if submitted != q.Answer {
			incorrect = append(incorrect, models.IncorrectAnswer{
				QuestionID:      q.ID,
				QuestionText:    q.Text,
				SubmittedAnswer: submitted,
				CorrectAnswer:   q.Answer,
			})
		}
	}

	return &models.AttemptResult{
		AttemptID:      attempt.ID,
		QuizID:         attempt.QuizID,
		Score:          attempt.Score,
		TotalQuestions: len(questions),
		IncorrectCount: len(questions) - attempt.Score,
		Incorrect:      incorrect,
	}
}
