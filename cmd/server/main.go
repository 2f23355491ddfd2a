package main

import (
	"alcyxob/fitness-scheduler/internal/api"
	"alcyxob/fitness-scheduler/internal/config"
	"alcyxob/fitness-scheduler/internal/logging"
	"alcyxob/fitness-scheduler/internal/metrics"
	"alcyxob/fitness-scheduler/internal/repository/mongo"
	"alcyxob/fitness-scheduler/internal/scheduler"
	"alcyxob/fitness-scheduler/internal/service"
	"alcyxob/fitness-scheduler/internal/session"
	"alcyxob/fitness-scheduler/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Scheduler API
// @version 1.0
// @description Weekly workout and diet schedules generated from the user's own catalogs.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.FileName,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting fitness scheduler server...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(context.Background(), cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	// The unique (userId, week) index guards week commits, so it is created before serving.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	err = mongo.EnsureIndexes(indexCtx, appDB)
	cancelIndex()
	if err != nil {
		log.Fatalf("could not create indexes: %v", err)
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client: %v", err)
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("could not connect to redis at %s: %v", cfg.Redis.Address, err)
	}
	cancelPing()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Warn("s3.bucket_name is not set, schedule export is disabled")
	}

	// --- Metrics ---
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("fitness", "scheduler", promRegistry)

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	catalogRepo := mongo.NewMongoCatalogRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	usedItemRepo := mongo.NewMongoUsedItemRepository(appDB)

	// --- Initialize Services ---
	drafts := session.NewRedisStore(redisClient, cfg.Onboarding.DraftTTL)
	profileService := service.NewProfileService(userRepo, drafts)
	catalogService := service.NewCatalogService(catalogRepo)
	scheduleService := service.NewScheduleService(
		userRepo,
		catalogRepo,
		scheduleRepo,
		usedItemRepo,
		scheduler.New(nil),
		fileStorage,
		metricsManager,
		time.Now,
	)

	// --- Initialize Gin Engine ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Dependencies{
		JWTSecret:         cfg.JWT.Secret,
		ProfileService:    profileService,
		CatalogService:    catalogService,
		ScheduleService:   scheduleService,
		Drafts:            drafts,
		RateLimiter:       redis_rate.NewLimiter(redisClient),
		SchedulePerMinute: cfg.RateLimit.SchedulePerMinute,
		Metrics:           metricsManager,
		MetricsHandler:    promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting")
}
