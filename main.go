package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/glucolog/glucolog/internal/ai"
	"github.com/glucolog/glucolog/internal/bot"
	"github.com/glucolog/glucolog/internal/bot/handlers"
	"github.com/glucolog/glucolog/internal/bot/state"
	"github.com/glucolog/glucolog/internal/config"
	"github.com/glucolog/glucolog/internal/database"
	"github.com/glucolog/glucolog/internal/logger"
	"github.com/glucolog/glucolog/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting GlucoLog bot")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	aiService, err := ai.NewService(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatalf("Failed to create AI service: %v", err)
	}

	deps := handlers.Dependencies{
		UserService:      services.NewUserService(db),
		GlucoseSvc:       services.NewGlucoseService(db),
		FoodSvc:          services.NewFoodService(db),
		ExerciseSvc:      services.NewExerciseService(db),
		GoalSvc:          services.NewGoalService(db),
		ImageAnalysisSvc: services.NewImageAnalysisService(db, aiService),
		ChatSvc:          services.NewChatService(aiService),
		StatsSvc:         services.NewStatsService(db),
		TTS:              ai.NewTTSClient(cfg.GeminiAPIKey),
	}
	logger.Info("Services initialized")

	var stateManager state.StateManager
	if cfg.Redis.Enabled {
		redisManager, err := state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Using Redis-backed conversation state")
	} else {
		stateManager = state.NewManager()
		logger.Info("Using in-memory conversation state")
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := telegramBot.Start(ctx); err != nil && err != context.Canceled {
			logger.Errorf("Bot stopped with error: %v", err)
			os.Exit(1)
		}
	}()

	logger.Info("Bot is running")
	wg.Wait()
}
