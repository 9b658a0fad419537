package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/handler"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/repository"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/infrastructure/cache"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/infrastructure/database"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/infrastructure/external/speech"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/infrastructure/media"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/infrastructure/storage"
	analysisUsecase "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/analysis"
	pkgai "github.com/rraj-official/radical-content-analyzer-sub000/pkg/ai"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/scratch"
	pkgvalidator "github.com/rraj-official/radical-content-analyzer-sub000/pkg/validator"
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

	// Cap upload body size
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB)))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Applying schema migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	resultCache := cache.NewResultCache(redisClient, cfg.Pipeline.CacheTTL)

	// Initialize object store
	log.Println("🪣 Connecting to object store...")
	chunkStore, err := storage.NewChunkStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	// Initialize media pipeline stages
	log.Println("🎬 Initializing media pipeline...")
	scratchProvider := scratch.NewProvider(cfg.Scratch.Root, logger)
	if err := os.MkdirAll(scratchProvider.Root(), 0o755); err != nil {
		log.Fatalf("Failed to prepare scratch root %s: %v", scratchProvider.Root(), err)
	}
	runner := media.NewExecRunner()
	acquirer := media.NewAcquirer(runner, scratchProvider, media.DefaultStrategies(), logger)
	extractor := media.NewExtractor(runner, scratchProvider, logger)
	chunker := media.NewChunker(runner, scratchProvider, logger)
	transcriber := speech.NewAssemblyAITranscriber(&cfg.Speech, logger)

	pipeline := analysisUsecase.NewPipeline(
		acquirer, extractor, chunker, chunkStore, transcriber,
		scratchProvider, &cfg.Pipeline, logger,
	)

	// Initialize repositories and analysis service
	log.Println("⚙️  Initializing analysis service...")
	analysisRepo := repository.NewAnalysisRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	groqClient := pkgai.NewGroqClient(&cfg.Groq)

	analysisService := analysisUsecase.NewService(
		pipeline, groqClient, acquirer, analysisRepo, feedbackRepo,
		resultCache, &cfg.Pipeline, logger,
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	analysisHandler := handler.NewAnalysisHandler(analysisService, logger)
	feedbackHandler := handler.NewFeedbackHandler(analysisService, logger)
	router := handler.NewRouter(cfg, analysisHandler, feedbackHandler)
	router.Setup(e)

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

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
