package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/advice"
	appamqp "github.com/adityadinkarpatil684/personal-finance-tracker/internal/amqp"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/config"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/gemini"
	apphttp "github.com/adityadinkarpatil684/personal-finance-tracker/internal/http"
	applog "github.com/adityadinkarpatil684/personal-finance-tracker/internal/log"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/services"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath, cfg.MaxDBConns)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Audit event publishing is optional; an empty AMQP URL disables it.
	var publisher services.EventPublisher
	var amqpClient *appamqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Audit event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Audit event publishing disabled - no AMQP_URL provided")
	}

	// The advice endpoint degrades to a configuration error when no key is
	// set; everything else keeps working.
	var generator advice.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.AdviceTimeout,
		})
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		generator = client
		logger.Info("AI advice enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("AI advice disabled - no GEMINI_API_KEY provided")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:               auth.NewService(repo, tokens),
		Tokens:             tokens,
		Transactions:       services.NewTransactionService(repo, publisher),
		Analytics:          services.NewAnalyticsService(repo),
		Advisor:            advice.NewService(repo, generator),
		Categories:         repo,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finance tracker server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
