package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/pantrysnap/backend/config"
	"github.com/pantrysnap/backend/internal/api"
	"github.com/pantrysnap/backend/internal/database"
	"github.com/pantrysnap/backend/internal/middleware"
	"github.com/pantrysnap/backend/internal/realtime"
	"github.com/pantrysnap/backend/internal/router"
	"github.com/pantrysnap/backend/internal/server"
	"github.com/pantrysnap/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rawDB, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer rawDB.Close()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		// Photo upload degrades; generation and saved recipes still work.
		log.Printf("S3 unavailable, photo uploads disabled: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)

	feed := realtime.NewFeed()
	hub := realtime.NewHub(feed)

	recipeService := service.NewRecipeService(db, feed)
	visionService := service.NewVisionService(cfg.VisionAPIURL, cfg.OpenAIKey)
	llmService := service.NewLLMService(cfg.RecipeAPIURL, cfg.OpenAIKey, profileService, redisClient)

	stageInterval := service.DefaultStageInterval
	if cfg.StageIntervalMillis > 0 {
		stageInterval = time.Duration(cfg.StageIntervalMillis) * time.Millisecond
	}
	orchestrator := service.NewOrchestrator(visionService, llmService, llmService, stageInterval)

	lock := service.NewGenerationLock(redisClient)
	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     20,
		KeyPrefix: "ratelimit:generate",
	})

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService, authService),
		Generate: api.NewGenerateHandler(orchestrator, llmService, recipeService, lock, authService, limiter),
		Recipes:  api.NewRecipeHandler(recipeService, authService),
		WS:       api.NewWSHandler(hub, authService),
		Health:   rawDB,
	}
	if s3Config != nil {
		handlers.Photos = api.NewPhotoHandler(service.NewPhotoService(s3Config), authService)
	}

	r := router.SetupRouter(handlers, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(r, cfg.ServerHost, cfg.ServerPort)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
