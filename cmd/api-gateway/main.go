package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/api/openapi"
	"github.com/dayplanhq/dayplan-api/internal/ai"
	"github.com/dayplanhq/dayplan-api/internal/handler"
	"github.com/dayplanhq/dayplan-api/internal/middleware"
	"github.com/dayplanhq/dayplan-api/internal/repository"
	"github.com/dayplanhq/dayplan-api/internal/service"
	"github.com/dayplanhq/dayplan-api/pkg/cache"
	"github.com/dayplanhq/dayplan-api/pkg/config"
	"github.com/dayplanhq/dayplan-api/pkg/database"
	"github.com/dayplanhq/dayplan-api/pkg/jobs"
	"github.com/dayplanhq/dayplan-api/pkg/logger"
	corsmiddleware "github.com/dayplanhq/dayplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dayplanhq/dayplan-api/pkg/middleware/requestid"
	"github.com/dayplanhq/dayplan-api/pkg/storage"
)

const exportCleanupInterval = 6 * time.Hour

// @title Dayplan API
// @version 1.0.0
// @description Daily planning service with adaptive scheduling
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsService := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, plan caching disabled", zap.Error(err))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer redisClient.Close() //nolint:errcheck
	}
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Scheduler.CacheTTL, logr, cacheRepo != nil)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	planRepo := repository.NewPlanRepository(db)
	modelRepo := repository.NewModelRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	var provider ai.Provider = ai.NewMockProvider()
	if cfg.AI.APIKey != "" {
		provider = ai.NewHuggingFaceProvider(ai.HuggingFaceConfig{
			APIKey:          cfg.AI.APIKey,
			BaseURL:         cfg.AI.BaseURL,
			ClassifierModel: cfg.AI.ClassifierModel,
			InstructModel:   cfg.AI.InstructModel,
			Timeout:         cfg.AI.RequestTimeout,
			Logger:          logr,
		})
	}

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "dayplan-api",
	})
	taskService := service.NewTaskService(taskRepo, provider, nil, logr, cfg.Scheduler.MaxTasksPerDay)
	modelService := service.NewModelService(modelRepo, feedbackRepo, planRepo, nil, logr, service.LearnerParams{
		LearningRate:     cfg.Learner.LearningRate,
		Regularization:   cfg.Learner.Regularization,
		MinFeedbackCount: cfg.Learner.MinFeedbackCount,
	})
	modelService.SetObserver(metricsService)
	scheduleService := service.NewScheduleService(userRepo, taskRepo, planRepo, modelService, provider, cacheService, metricsService, nil, logr, service.ScheduleConfig{
		CacheTTL:           cfg.Scheduler.CacheTTL,
		HistoryDays:        cfg.Scheduler.HistoryDays,
		ExplanationEnabled: cfg.AI.ExplanationEnabled,
	})
	settingsService := service.NewSettingsService(userRepo, nil, logr)
	catalogService := service.NewCatalogService(catalogRepo, nil, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportService := service.NewExportService(planRepo, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, nil, logr, nil, nil)

	cleanupQueue := jobs.NewQueue("export-cleanup", func(ctx context.Context, job jobs.Job) error {
		removed, err := exportService.Cleanup(0)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Info("expired exports removed", zap.Int("count", len(removed)))
		}
		return nil
	}, jobs.QueueConfig{Workers: 1, Logger: logr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanupQueue.Start(ctx)
	defer cleanupQueue.Stop()
	go func() {
		ticker := time.NewTicker(exportCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := cleanupQueue.Enqueue(jobs.Job{Type: "cleanup"}); err != nil {
					logr.Warn("failed to enqueue export cleanup", zap.Error(err))
				}
			}
		}
	}()

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	modelHandler := handler.NewModelHandler(modelService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", []byte(openapi.Document))
		})
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
			auth.GET("/me", middleware.JWT(authService), authHandler.Me)
		}

		api.GET("/exports/:token", exportHandler.Download)

		protected := api.Group("")
		protected.Use(middleware.JWT(authService))
		{
			protected.POST("/tasks", taskHandler.Create)
			protected.GET("/tasks", taskHandler.List)
			protected.GET("/tasks/:id", taskHandler.Get)
			protected.PATCH("/tasks/:id", taskHandler.Update)
			protected.DELETE("/tasks/:id", taskHandler.Archive)

			protected.POST("/schedule", scheduleHandler.Generate)
			protected.GET("/plans", scheduleHandler.ListPlans)
			protected.GET("/plans/:date", scheduleHandler.GetPlan)
			protected.GET("/plans/:date/export", exportHandler.Export)

			protected.POST("/feedback", modelHandler.SubmitFeedback)
			protected.GET("/model", modelHandler.GetModel)
			protected.DELETE("/model", modelHandler.Reset)

			protected.GET("/settings", settingsHandler.Get)
			protected.PATCH("/settings", settingsHandler.Update)

			protected.GET("/catalog", catalogHandler.List)
			protected.POST("/catalog", catalogHandler.Create)
			protected.POST("/catalog/:id/used", catalogHandler.MarkUsed)

			protected.GET("/status", metricsHandler.Snapshot)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}
