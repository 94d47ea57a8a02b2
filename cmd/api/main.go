package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/savorista/backend/config"
	"github.com/savorista/backend/internal/api"
	"github.com/savorista/backend/internal/database"
	"github.com/savorista/backend/internal/middleware"
	"github.com/savorista/backend/internal/server"
	"github.com/savorista/backend/internal/service"
)

func main() {
	// .env is a development convenience; absence is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	progress, err := service.NewProgressStore(cfg.ProgressDir)
	if err != nil {
		log.Fatalf("Failed to initialize progress store: %v", err)
	}

	// Redis backs drafts and rate limiting; the server still runs without
	// it, with both disabled.
	var drafts *service.DraftService
	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, drafts and rate limiting disabled: %v", err)
	} else {
		drafts = service.NewDraftService(redisClient)
		if cfg.RateLimit > 0 {
			limiter = middleware.NewGenerationRateLimiter(redisClient, cfg.RateLimit)
		}
	}

	var media *service.MediaService
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, image pinning disabled: %v", err)
	} else if s3Cfg != nil {
		media = service.NewMediaService(s3Cfg)
	}

	assembler := service.NewAssembler(llm, progress, service.DefaultAssemblerOptions())
	recipes := service.NewRecipeService(db)
	handler := api.NewRecipeHandler(assembler, recipes, drafts, media)

	srv := server.New(cfg, handler, limiter)

	go func() {
		log.Printf("Server listening on %s:%s", cfg.ServerHost, cfg.ServerPort)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
