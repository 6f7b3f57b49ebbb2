package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nkwats-ai/checkpoint-service/internal/auth"
	"github.com/nkwats-ai/checkpoint-service/internal/cache"
	"github.com/nkwats-ai/checkpoint-service/internal/config"
	"github.com/nkwats-ai/checkpoint-service/internal/handlers"
	"github.com/nkwats-ai/checkpoint-service/internal/quiz"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories/postgres"
	"github.com/nkwats-ai/checkpoint-service/internal/services"
	"github.com/nkwats-ai/checkpoint-service/internal/utils"
	"github.com/nkwats-ai/checkpoint-service/internal/validator"
	"github.com/nkwats-ai/checkpoint-service/pkg"
)

func main() {
	var logger utils.Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
		gin.SetMode(gin.DebugMode)
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
		cacheService = cache.NewNoopCache()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	v := validator.New()

	rule := quiz.Rule{
		PassScore:    cfg.Checkpoint.PassScore,
		MaxDurationS: cfg.Checkpoint.MaxDurationS,
	}

	courseService := services.NewCourseService(repo, cacheService, slogger, v)
	quizService := services.NewQuizService(repo, courseService, slogger, v)
	attemptService := services.NewAttemptService(repo, quizService, publisher, rule, slogger, v)
	progressService := services.NewProgressService(repo, publisher, cfg.Checkpoint, slogger, v)
	attestationService := services.NewAttestationService(repo, publisher, slogger, v)
	benefitService := services.NewBenefitService(repo, publisher, cfg.Checkpoint, slogger, v)
	exportService := services.NewExportService(repo, slogger, v)

	gate := services.NewIdempotencyGate(repo.Idempotency(), cacheService, cfg.IdempotencyTTL, slogger)
	dispatcher := services.NewDispatcher(
		courseService,
		quizService,
		attemptService,
		progressService,
		attestationService,
		benefitService,
		gate,
		slogger,
	)

	broadcaster := auth.NewBroadcaster()
	authService := auth.NewService(repo, auth.NewDevSignatureVerifier(), broadcaster, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager := handlers.NewHandlerManager(
		dispatcher,
		authService,
		courseService,
		attemptService,
		progressService,
		benefitService,
		attestationService,
		exportService,
		v,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("checkpoint service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
