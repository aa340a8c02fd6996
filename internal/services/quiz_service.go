package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizhippo/quiz-service/internal/ai"
	"github.com/quizhippo/quiz-service/internal/cache"
	"github.com/quizhippo/quiz-service/internal/content"
	"github.com/quizhippo/quiz-service/internal/events"
	"github.com/quizhippo/quiz-service/internal/models"
	"github.com/quizhippo/quiz-service/internal/parser"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"github.com/quizhippo/quiz-service/internal/validator"
)

const (
	defaultNumQuestions = 5
	defaultLanguage     = "English"

	exploreCacheKeyFmt = "quizzes:public:cat=%s:diff=%d:trending=%t:limit=%d:offset=%d"
	exploreCacheTTL    = 5 * time.Minute
)

// GenerateQuizRequest describes one quiz generation call. Exactly one of
// Prompt, SourceURL, SourceText or PDFPath may be set; with none set the
// topic itself is the source material.
type GenerateQuizRequest struct {
	Topic        string                    `json:"topic" validate:"required,max=200"`
	Language     string                    `json:"language" validate:"omitempty,max=50"`
	Category     string                    `json:"category" validate:"omitempty,max=100"`
	NumQuestions int                       `json:"num_questions" validate:"omitempty,min=1,max=20"`
	Difficulty   int                       `json:"difficulty" validate:"omitempty,min=1,max=5"`
	QuestionType models.QuestionPreference `json:"question_type" validate:"omitempty,question_preference"`
	Prompt       string                    `json:"prompt"`
	SourceURL    string                    `json:"source_url" validate:"omitempty,url"`
	SourceText   string                    `json:"source_text"`
	PDFPath      string                    `json:"-"`
	IsPublic     bool                      `json:"is_public"`
}

// QuizListResult splits a user's quizzes by whether they have a stored
// attempt.
type QuizListResult struct {
	Attempted    []*models.Quiz `json:"attempted"`
	NotAttempted []*models.Quiz `json:"not_attempted"`
	Total        int64          `json:"total"`
}

// QuizService owns the generation pipeline and quiz lifecycle operations.
type QuizService interface {
	Generate(ctx context.Context, req *GenerateQuizRequest, ownerID *uint) (*models.Quiz, error)
	Get(ctx context.Context, quizID uint, userID *uint) (*models.Quiz, error)
	ListMine(ctx context.Context, userID uint, filters repositories.QuizFilters) (*QuizListResult, error)
	Explore(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error)
	Delete(ctx context.Context, quizID, userID uint) error
	SetVisibility(ctx context.Context, quizID, userID uint, isPublic bool) error
	Share(ctx context.Context, quizID, ownerID uint, username string) error
	Rate(ctx context.Context, quizID, userID uint, rating int) error
}

type quizService struct {
	repo      repositories.Repository
	generator *ai.Generator
	acquirer  *content.Acquirer
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func NewQuizService(
	repo repositories.Repository,
	generator *ai.Generator,
	acquirer *content.Acquirer,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
) QuizService {
	return &quizService{
		repo:      repo,
		generator: generator,
		acquirer:  acquirer,
		cache:     cacheService,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

// ===== GENERATION PIPELINE =====

// Generate runs the full pipeline: resolve source material, call the
// generator, parse its response and persist the result. A response that
// parses to zero questions is still persisted as an empty quiz.
func (s *quizService) Generate(ctx context.Context, req *GenerateQuizRequest, ownerID *uint) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if req.NumQuestions == 0 {
		req.NumQuestions = defaultNumQuestions
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}
	if req.Difficulty == 0 {
		req.Difficulty = parser.DefaultDifficulty
	}
	if req.QuestionType == "" {
		req.QuestionType = models.PreferMix
	}

	s.logger.Info("Generating quiz",
		"topic", req.Topic,
		"num_questions", req.NumQuestions,
		"difficulty", req.Difficulty)

	sourceText := s.acquirer.Resolve(ctx, content.Source{
		Prompt:  req.Prompt,
		URL:     req.SourceURL,
		Text:    req.SourceText,
		PDFPath: req.PDFPath,
		Topic:   req.Topic,
	})

	rawText, err := s.generator.GenerateQuizText(ctx, ai.GenerateParams{
		Topic:        req.Topic,
		Language:     req.Language,
		Category:     req.Category,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
		Content:      sourceText,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	parsed := parser.Parse(rawText)
	quiz := s.buildQuiz(req, ownerID, parsed)

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to persist quiz: %w", err)
	}

	event := events.NewQuizGeneratedEvent(
		quiz.ID, quiz.Topic, quiz.Category, quiz.Difficulty, len(quiz.Questions), ownerID)
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz generated event",
			"quiz_id", quiz.ID,
			"error", err)
	}

	if quiz.IsPublic {
		s.invalidateExploreCache(ctx)
	}

	s.logger.Info("Quiz generated",
		"quiz_id", quiz.ID,
		"question_count", len(quiz.Questions))

	return quiz, nil
}

// buildQuiz maps parser output onto persisted records. The parsed header
// wins over the request: the generator may refine the topic, so the
// request topic is only a fallback for an undetectable header.
func (s *quizService) buildQuiz(req *GenerateQuizRequest, ownerID *uint, parsed parser.ParsedQuiz) *models.Quiz {
	topic := parsed.Topic
	if topic == parser.DefaultTopic && req.Topic != "" {
		topic = req.Topic
	}
	category := parsed.Category
	if category == parser.DefaultCategory && req.Category != "" {
		category = req.Category
	}

	quiz := &models.Quiz{
		Topic:              topic,
		Difficulty:         s.validator.Question().NormalizeDifficulty(parsed.Difficulty),
		Category:           category,
		QuestionPreference: req.QuestionType,
		IsPublic:           req.IsPublic,
		OwnerID:            ownerID,
	}

	for i, pq := range parsed.Questions {
		question := models.Question{
			Text:       pq.Text,
			Type:       pq.Type,
			Difficulty: s.validator.Question().NormalizeDifficulty(pq.Difficulty),
			Answer:     pq.Answer,
			Position:   i + 1,
		}
		for _, opt := range pq.Options {
			question.Options = append(question.Options, models.Option{Text: opt})
		}
		if err := s.validator.Question().ValidateQuestion(&question); err != nil {
			// Generator output is best effort; keep the question but flag it.
			s.logger.Warn("Generated question failed validation",
				"position", question.Position,
				"error", err)
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz
}

// ===== RETRIEVAL =====

func (s *quizService) Get(ctx context.Context, quizID uint, userID *uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.checkReadAccess(ctx, quiz, userID); err != nil {
		return nil, err
	}

	avg, err := s.repo.Quiz().AverageRating(ctx, quizID)
	if err == nil {
		quiz.AvgRating = avg
	}
	quiz.QuestionsCount = len(quiz.Questions)

	return quiz, nil
}

func (s *quizService) ListMine(ctx context.Context, userID uint, filters repositories.QuizFilters) (*QuizListResult, error) {
	quizzes, total, err := s.repo.Quiz().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	attemptedIDs, err := s.repo.Attempt().AttemptedQuizIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempted quizzes: %w", err)
	}
	attempted := make(map[uint]bool, len(attemptedIDs))
	for _, id := range attemptedIDs {
		attempted[id] = true
	}

	result := &QuizListResult{Total: total}
	for _, quiz := range quizzes {
		if attempted[quiz.ID] {
			result.Attempted = append(result.Attempted, quiz)
		} else {
			result.NotAttempted = append(result.NotAttempted, quiz)
		}
	}
	return result, nil
}

// Explore lists public quizzes, trending-filtered when requested. Results
// are cached briefly since this is the highest-traffic read path.
func (s *quizService) Explore(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	key := exploreCacheKey(filters)

	var cached exploreCacheEntry
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Quizzes, cached.Total, nil
	}

	quizzes, total, err := s.repo.Quiz().ListPublic(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public quizzes: %w", err)
	}

	entry := exploreCacheEntry{Quizzes: quizzes, Total: total}
	if err := s.cache.Set(ctx, key, entry, exploreCacheTTL); err != nil {
		s.logger.Warn("Failed to cache explore listing", "error", err)
	}

	return quizzes, total, nil
}

type exploreCacheEntry struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
}

func exploreCacheKey(filters repositories.QuizFilters) string {
	category := ""
	if filters.Category != nil {
		category = *filters.Category
	}
	difficulty := 0
	if filters.Difficulty != nil {
		difficulty = *filters.Difficulty
	}
	return fmt.Sprintf(exploreCacheKeyFmt, category, difficulty, filters.Trending, filters.Limit, filters.Offset)
}

func (s *quizService) invalidateExploreCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "quizzes:public:*"); err != nil {
		s.logger.Warn("Failed to invalidate explore cache", "error", err)
	}
}

// ===== LIFECYCLE =====

func (s *quizService) Delete(ctx context.Context, quizID, userID uint) error {
	quiz, err := s.getOwned(ctx, quizID, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Quiz().Delete(ctx, quiz.ID); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	if quiz.IsPublic {
		s.invalidateExploreCache(ctx)
	}

	s.logger.Info("Quiz deleted", "quiz_id", quizID, "user_id", userID)
	return nil
}

func (s *quizService) SetVisibility(ctx context.Context, quizID, userID uint, isPublic bool) error {
	if _, err := s.getOwned(ctx, quizID, userID); err != nil {
		return err
	}

	if err := s.repo.Quiz().SetVisibility(ctx, quizID, isPublic); err != nil {
		return fmt.Errorf("failed to update quiz visibility: %w", err)
	}

	s.invalidateExploreCache(ctx)
	return nil
}

func (s *quizService) Share(ctx context.Context, quizID, ownerID uint, username string) error {
	quiz, err := s.getOwned(ctx, quizID, ownerID)
	if err != nil {
		return err
	}

	recipient, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.repo.Quiz().Share(ctx, quizID, recipient.ID); err != nil {
		return fmt.Errorf("failed to share quiz: %w", err)
	}

	event := events.NewQuizSharedEvent(quizID, quiz.Topic, ownerID, []uint{recipient.ID})
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz shared event",
			"quiz_id", quizID,
			"error", err)
	}

	s.logger.Info("Quiz shared",
		"quiz_id", quizID,
		"owner_id", ownerID,
		"recipient_id", recipient.ID)
	return nil
}

func (s *quizService) Rate(ctx context.Context, quizID, userID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidationFailed)
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.IsPublic {
		if err := s.checkReadAccess(ctx, quiz, &userID); err != nil {
			return err
		}
	}

	if err := s.repo.Quiz().Rate(ctx, &models.QuizRating{
		QuizID: quizID,
		UserID: userID,
		Rating: rating,
	}); err != nil {
		return fmt.Errorf("failed to rate quiz: %w", err)
	}

	avg, err := s.repo.Quiz().AverageRating(ctx, quizID)
	if err != nil {
		s.logger.Warn("Failed to compute average rating", "quiz_id", quizID, "error", err)
		avg = float64(rating)
	}

	event := events.NewQuizRatedEvent(quizID, userID, rating, avg)
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz rated event",
			"quiz_id", quizID,
			"error", err)
	}

	// Trending order depends on average ratings.
	s.invalidateExploreCache(ctx)
	return nil
}

// ===== ACCESS CHECKS =====

func (s *quizService) getOwned(ctx context.Context, quizID, userID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.OwnerID == nil || *quiz.OwnerID != userID {
		return nil, ErrQuizNotOwned
	}
	return quiz, nil
}

func (s *quizService) checkReadAccess(ctx context.Context, quiz *models.Quiz, userID *uint) error {
	if quiz.IsPublic {
		return nil
	}
	if userID == nil {
		return ErrQuizAccessDenied
	}
	if quiz.OwnerID != nil && *quiz.OwnerID == *userID {
		return nil
	}
	shared, err := s.repo.Quiz().IsSharedWith(ctx, quiz.ID, *userID)
	if err != nil {
		return fmt.Errorf("failed to check quiz sharing: %w", err)
	}
	if !shared {
		return ErrQuizAccessDenied
	}
	return nil
}
