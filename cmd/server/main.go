package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizhippo/quiz-service/internal/ai"
	"github.com/quizhippo/quiz-service/internal/auth"
	"github.com/quizhippo/quiz-service/internal/cache"
	"github.com/quizhippo/quiz-service/internal/config"
	"github.com/quizhippo/quiz-service/internal/handlers"
	"github.com/quizhippo/quiz-service/internal/repositories/postgres"
	"github.com/quizhippo/quiz-service/internal/services"
	"github.com/quizhippo/quiz-service/internal/utils"
	"github.com/quizhippo/quiz-service/internal/validator"
	"github.com/quizhippo/quiz-service/pkg"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("No .env file loaded, using environment", "error", err)
		cfg = &config.Config{}
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	ctx := context.Background()

	aiClient, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		return err
	}

	cacheService := cache.NewRedisCache(redisClient, logger)
	sessions := cache.NewSessionStore(cacheService, cache.DefaultSessionTTL)

	serviceManager := services.NewServiceManager(services.ManagerDeps{
		Repo:      postgres.NewRepository(db),
		AIClient:  aiClient,
		Cache:     cacheService,
		Sessions:  sessions,
		Publisher: publisher,
		Tokens:    tokens,
		Validator: validator.New(),
		Logger:    logger,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	appLogger := utils.NewSlogLogger(logger)
	router.Use(utils.LoggerMiddleware(appLogger))

	handlerManager := handlers.NewHandlerManager(serviceManager, tokens, appLogger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
