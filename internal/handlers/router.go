package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/auth"
	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	quizHandler      *QuizHandler
	attemptHandler   *AttemptHandler
	assistantHandler *AssistantHandler
	serverHandler    *ServerHandler
	tokens           *auth.TokenManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), serviceManager.Export(), logger),
		attemptHandler:   NewAttemptHandler(serviceManager.Attempt(), serviceManager.Export(), logger),
		assistantHandler: NewAssistantHandler(serviceManager.Assistant(), logger),
		serverHandler:    NewServerHandler(serviceManager.Server(), logger),
		tokens:           tokens,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)

			authed := authGroup.Group("", AuthRequired(hm.tokens))
			{
				authed.PUT("/password", hm.authHandler.ChangePassword)
				authed.DELETE("/account", hm.authHandler.DeleteAccount)
				authed.GET("/profile", hm.authHandler.GetProfile)
				authed.PUT("/profile", hm.authHandler.UpdateProfile)
			}
		}

		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			// Generation and public reads work for anonymous callers too.
			quizzes.POST("/generate", AuthOptional(hm.tokens), hm.quizHandler.GenerateQuiz)
			quizzes.POST("/generate/pdf", AuthOptional(hm.tokens), hm.quizHandler.GenerateQuizFromPDF)
			quizzes.GET("/explore", hm.quizHandler.Explore)
			quizzes.GET("/:id", AuthOptional(hm.tokens), hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/export", AuthOptional(hm.tokens), hm.quizHandler.ExportQuiz)

			authed := quizzes.Group("", AuthRequired(hm.tokens))
			{
				authed.GET("", hm.quizHandler.ListMyQuizzes)
				authed.DELETE("/:id", hm.quizHandler.DeleteQuiz)
				authed.PUT("/:id/visibility", hm.quizHandler.SetVisibility)
				authed.POST("/:id/share", hm.quizHandler.ShareQuiz)
				authed.POST("/:id/rate", hm.quizHandler.RateQuiz)
				authed.POST("/:id/attempts", hm.attemptHandler.SubmitAttempt)
			}
		}

		// Attempt routes
		attempts := v1.Group("/attempts", AuthRequired(hm.tokens))
		{
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:id", hm.attemptHandler.GetAttemptResult)
			attempts.GET("/:id/export", hm.attemptHandler.ExportAttemptReport)
		}

		// Assistant routes
		assistant := v1.Group("/assistant", AuthRequired(hm.tokens))
		{
			assistant.POST("/chat", hm.assistantHandler.Chat)
		}

		// Server routes
		servers := v1.Group("/servers", AuthRequired(hm.tokens))
		{
			servers.POST("", hm.serverHandler.CreateServer)
			servers.GET("", hm.serverHandler.ListMyServers)
			servers.POST("/join", hm.serverHandler.JoinServer)
			servers.GET("/:id", hm.serverHandler.GetServer)
			servers.POST("/:id/quizzes", hm.serverHandler.PostQuiz)
			servers.GET("/:id/quizzes", hm.serverHandler.ListServerQuizzes)
		}
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
