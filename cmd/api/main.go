package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-taskflow/pkg/validator"

	"github.com/johnquangdev/meeting-taskflow/internal/adapter/handler"
	"github.com/johnquangdev/meeting-taskflow/internal/adapter/repository"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/realtime"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/assignment"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/extraction"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/notification"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/pipeline"
	pkgai "github.com/johnquangdev/meeting-taskflow/pkg/ai"
	"github.com/johnquangdev/meeting-taskflow/pkg/config"
	"github.com/johnquangdev/meeting-taskflow/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	itemRepo := repository.NewActionItemRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Initialize realtime hub and cross-instance bridge
	log.Println("📡 Initializing realtime hub...")
	hub := realtime.NewHub(logger)
	bridge := realtime.NewBridge(hub, redisClient, logger)

	hub.RegisterSnapshot("tasks:", func(ctx context.Context, key string) (any, error) {
		userID, err := uuid.Parse(strings.TrimPrefix(key, "tasks:"))
		if err != nil {
			return nil, err
		}
		return itemRepo.ListByAssignee(ctx, userID)
	})
	hub.RegisterSnapshot("notifications:", func(ctx context.Context, key string) (any, error) {
		userID, err := uuid.Parse(strings.TrimPrefix(key, "notifications:"))
		if err != nil {
			return nil, err
		}
		return notifRepo.ListByUser(ctx, userID, false)
	})

	// Initialize notification dispatcher with redis-backed dedup
	log.Println("🔔 Initializing notification dispatcher...")
	dedup := cache.NewRedisDedup(redisClient)
	dispatcher := notification.NewDispatcher(notifRepo, teamRepo, dedup, bridge, logger)

	// Initialize assignment engine
	log.Println("📋 Initializing assignment engine...")
	engine := assignment.NewEngine(itemRepo, teamRepo, dispatcher, bridge, logger)

	// Initialize AI extraction client
	log.Println("🤖 Initializing AI components...")
	llmClient := pkgai.NewLLMClient(&cfg.LLM)
	extractor := extraction.NewClient(llmClient, logger)

	// Initialize transcript archive; processing works without it
	log.Println("🗄️  Initializing transcript archive...")
	var archiver pipeline.Archiver
	archive, err := storage.NewTranscriptArchive(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Transcript archive unavailable, raw transcripts will not be kept: %v", err)
	} else {
		archiver = archive
	}

	// Initialize processing pipeline
	log.Println("⚡ Initializing processing pipeline...")
	pipelineService := pipeline.NewService(
		meetingRepo,
		itemRepo,
		teamRepo,
		extractor,
		engine,
		dispatcher,
		archiver,
		hub,
		cfg.LLM.Model,
		logger,
	)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	meetingHandler := handler.NewMeeting(cfg, pipelineService, meetingRepo, logger)
	taskHandler := handler.NewTask(engine, itemRepo, logger)
	notificationHandler := handler.NewNotification(dispatcher, logger)
	streamHandler := handler.NewStream(pipelineService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, jwtManager, meetingHandler, taskHandler, notificationHandler, streamHandler)
	router.Setup(e)

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	go bridge.Run(workerCtx)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case now := <-ticker.C:
				if n, err := engine.SweepOverdue(workerCtx, now); err != nil {
					logger.Error("overdue sweep failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("overdue sweep dispatched reminders", zap.Int("count", n))
				}
			}
		}
	}()

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
