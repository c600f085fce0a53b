package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/doggofresh/backend/config"
	"github.com/doggofresh/backend/internal/api"
	"github.com/doggofresh/backend/internal/database"
	"github.com/doggofresh/backend/internal/media"
	"github.com/doggofresh/backend/internal/router"
	"github.com/doggofresh/backend/internal/server"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/store"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	docStore, err := store.New(db)
	if err != nil {
		logger.Fatal("Failed to initialize document store", zap.Error(err))
	}

	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3", zap.Error(err))
	}
	mediaSvc := media.NewService(s3cfg, logger)
	if mediaSvc == nil {
		logger.Warn("S3_BUCKET_NAME not set; media uploads disabled")
	}

	authSvc := service.NewAuthService(docStore, cfg.JWTSecret, logger)
	geminiSvc, err := service.NewGeminiService(ctx, cfg.GeminiAPIKey, redisClient, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini service", zap.Error(err))
	}
	accountSvc := service.NewAccountService(docStore)

	var quizUploader service.PhotoUploader
	var petUploader api.PetPhotoUploader
	if mediaSvc != nil {
		quizUploader = mediaSvc
		petUploader = mediaSvc
	}
	quizSvc := service.NewQuizService(docStore, geminiSvc, quizUploader, logger)

	engine := router.SetupRouter(router.Handlers{
		Auth:          api.NewAuthHandler(authSvc, logger),
		AI:            api.NewAIHandler(geminiSvc, logger),
		Quiz:          api.NewQuizHandler(quizSvc, logger),
		Pets:          api.NewPetsHandler(accountSvc, petUploader, logger),
		Subscriptions: api.NewSubscriptionsHandler(accountSvc, logger),
		Billing:       api.NewBillingHandler(accountSvc, logger),
		Profile:       api.NewProfileHandler(accountSvc, logger),
	}, authSvc, logger)

	srv := server.New(cfg, engine, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
