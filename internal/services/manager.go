package services

import (
	"log/slog"

	"github.com/quizhippo/quiz-service/internal/ai"
	"github.com/quizhippo/quiz-service/internal/auth"
	"github.com/quizhippo/quiz-service/internal/cache"
	"github.com/quizhippo/quiz-service/internal/content"
	"github.com/quizhippo/quiz-service/internal/events"
	"github.com/quizhippo/quiz-service/internal/repositories"
	"github.com/quizhippo/quiz-service/internal/validator"
)

// ServiceManager wires the service layer once and hands the pieces out to
// the handlers.
type ServiceManager interface {
	Auth() AuthService
	Quiz() QuizService
	Attempt() AttemptService
	Assistant() AssistantService
	Export() ExportService
	Server() ServerService
}

type serviceManager struct {
	authService      AuthService
	quizService      QuizService
	attemptService   AttemptService
	assistantService AssistantService
	exportService    ExportService
	serverService    ServerService
}

// ManagerDeps carries the shared infrastructure the services are built on.
type ManagerDeps struct {
	Repo      repositories.Repository
	AIClient  ai.Client
	Cache     cache.CacheService
	Sessions  ai.SessionStore
	Publisher events.EventPublisher
	Tokens    *auth.TokenManager
	Validator *validator.Validator
	Logger    *slog.Logger
}

func NewServiceManager(deps ManagerDeps) ServiceManager {
	generator := ai.NewGenerator(deps.AIClient)
	judge := ai.NewJudge(deps.AIClient)
	assistant := ai.NewAssistant(deps.AIClient, deps.Sessions, ai.DefaultMaxTurns)
	acquirer := content.NewAcquirer()

	grader := NewGradingService(judge, deps.Logger)
	attemptService := NewAttemptService(deps.Repo, grader, deps.Publisher, deps.Logger)

	return &serviceManager{
		authService:      NewAuthService(deps.Repo, deps.Tokens, deps.Validator, deps.Logger),
		quizService:      NewQuizService(deps.Repo, generator, acquirer, deps.Cache, deps.Publisher, deps.Validator, deps.Logger),
		attemptService:   attemptService,
		assistantService: NewAssistantService(assistant, deps.Logger),
		exportService:    NewExportService(deps.Repo, attemptService, deps.Logger),
		serverService:    NewServerService(deps.Repo, deps.Validator, deps.Logger),
	}
}

func (m *serviceManager) Auth() AuthService           { return m.authService }
func (m *serviceManager) Quiz() QuizService           { return m.quizService }
func (m *serviceManager) Attempt() AttemptService     { return m.attemptService }
func (m *serviceManager) Assistant() AssistantService { return m.assistantService }
func (m *serviceManager) Export() ExportService       { return m.exportService }
func (m *serviceManager) Server() ServerService       { return m.serverService }
