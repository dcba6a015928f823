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
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/studentools-api/api/swagger"
	"github.com/noah-isme/studentools-api/internal/handler"
	internalmiddleware "github.com/noah-isme/studentools-api/internal/middleware"
	"github.com/noah-isme/studentools-api/internal/models"
	"github.com/noah-isme/studentools-api/internal/repository"
	"github.com/noah-isme/studentools-api/internal/service"
	"github.com/noah-isme/studentools-api/pkg/cache"
	"github.com/noah-isme/studentools-api/pkg/config"
	"github.com/noah-isme/studentools-api/pkg/database"
	"github.com/noah-isme/studentools-api/pkg/jobs"
	"github.com/noah-isme/studentools-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/studentools-api/pkg/middleware/cors"
	"github.com/noah-isme/studentools-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/studentools-api/pkg/middleware/requestid"
	"github.com/noah-isme/studentools-api/pkg/notify"
	"github.com/noah-isme/studentools-api/pkg/telemetry"
)

// @title StuDenTools API
// @version 1.0.0
// @description Student productivity tools: auto-timetable, GPA calculator and feedback.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, logr)
	if err != nil {
		logr.Warn("tracing unavailable", zap.Error(err))
		shutdownTracer = func(context.Context) {}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db := connectDatabase(ctx, cfg, logr)
	redisClient := connectRedis(ctx, cfg, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	var timetableCache *service.CacheService
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient)
		timetableCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.CacheTTL, logr, cfg.Scheduler.CacheEnabled)
	}

	timetableSvc := service.NewTimetableService(validate, timetableCache, metricsSvc, logr, service.TimetableConfig{
		MaxSearchNodes: cfg.Scheduler.MaxSearchNodes,
		MaxCourses:     cfg.Scheduler.MaxCourses,
		CacheTTL:       cfg.Scheduler.CacheTTL,
	})
	exporter := service.NewTimetableExporter(timetableSvc, nil, nil)
	gpaSvc := service.NewGPAService(validate)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	mailer := notify.NewResendClient(notify.ResendConfig{
		APIKey:  cfg.Feedback.ResendAPIKey,
		BaseURL: cfg.Feedback.ResendBaseURL,
		From:    cfg.Feedback.MailFrom,
		To:      cfg.Feedback.MailTo,
	})

	var feedbackRepo *repository.FeedbackRepository
	var feedbackSvc *service.FeedbackService
	if db != nil {
		feedbackRepo = repository.NewFeedbackRepository(db)
		if err := feedbackRepo.EnsureSchema(ctx); err != nil {
			logr.Warn("feedback schema setup failed", zap.Error(err))
		}
		feedbackSvc = service.NewFeedbackService(feedbackRepo, mailer, validate, metricsSvc, logr)
	} else {
		feedbackSvc = service.NewFeedbackService(nil, mailer, validate, metricsSvc, logr)
	}

	notifications := jobs.NewQueue("feedback-notifications", feedbackSvc.HandleNotification, jobs.QueueConfig{
		Workers:    cfg.Feedback.Workers,
		BufferSize: 64,
		MaxRetries: cfg.Feedback.Retries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnDrop: func(job jobs.Job, err error) {
			metricsSvc.RecordNotification(service.NotificationDropped)
			logr.Error("feedback notification dropped", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		},
	})
	notifications.Start(ctx)
	feedbackSvc.UseQueue(notifications)

	checks := map[string]handler.ReadinessCheck{}
	if feedbackRepo != nil {
		checks["postgres"] = feedbackRepo.Ping
	}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo.Ping
	}

	systemHandler := handler.NewMetricsHandler(metricsSvc, checks)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, exporter)
	gpaHandler := handler.NewGPAHandler(gpaSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	lightweight := limiter(cfg, ratelimit.TierLightweight, cfg.RateLimit.Lightweight, metricsSvc)
	fileProcessing := limiter(cfg, ratelimit.TierFileProcessing, cfg.RateLimit.FileProcessing, metricsSvc)
	ai := limiter(cfg, ratelimit.TierAI, cfg.RateLimit.AI, metricsSvc)

	r.GET("/", lightweight, systemHandler.Welcome)
	r.GET("/health", lightweight, systemHandler.Health)
	r.GET("/ready", lightweight, systemHandler.Ready)
	r.GET("/metrics", systemHandler.Prometheus)

	timetable := r.Group("/auto-timetable")
	timetable.POST("/generate", ai, timetableHandler.Generate)
	timetable.POST("/export", fileProcessing, timetableHandler.Export)

	api := r.Group(cfg.APIPrefix)
	api.Use(lightweight)
	api.POST("/gpa", gpaHandler.Calculate)
	api.GET("/gpa/scales", gpaHandler.Scales)

	feedback := api.Group("/feedback")
	feedback.POST("/", feedbackHandler.Submit)
	feedback.GET("/",
		internalmiddleware.JWT(tokenSvc),
		internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin),
		feedbackHandler.List,
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http server shutdown failed", zap.Error(err))
	}
	notifications.Stop()
	closeResources(db, cacheRepo, logr)
	shutdownTracer(shutdownCtx)
	logr.Info("server stopped")
}

func limiter(cfg *config.Config, tier string, perMinute int, metricsSvc *service.MetricsService) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled || perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return ratelimit.New(tier, perMinute, ratelimit.WithRejectHook(metricsSvc.RecordRateLimited)).Middleware()
}

func connectDatabase(ctx context.Context, cfg *config.Config, logr *zap.Logger) *sqlx.DB {
	if !cfg.Feedback.Enabled {
		return nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, feedback storage disabled", zap.Error(err))
		return nil
	}
	return db
}

func connectRedis(ctx context.Context, cfg *config.Config, logr *zap.Logger) *redis.Client {
	if !cfg.Scheduler.CacheEnabled {
		return nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
		return nil
	}
	return client
}

func closeResources(db *sqlx.DB, cacheRepo *repository.CacheRepository, logr *zap.Logger) {
	if db != nil {
		if err := db.Close(); err != nil {
			logr.Warn("close postgres", zap.Error(err))
		}
	}
	if cacheRepo != nil {
		if err := cacheRepo.Close(); err != nil {
			logr.Warn("close redis", zap.Error(err))
		}
	}
}
