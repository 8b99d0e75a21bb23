// The audit worker consumes ledger change events from RabbitMQ and persists
// them to the audit_events table.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appamqp "github.com/adityadinkarpatil684/personal-finance-tracker/internal/amqp"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/config"
	applog "github.com/adityadinkarpatil684/personal-finance-tracker/internal/log"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent("audit-worker")
	applog.SetDefault(logger)

	logger.Info("Starting audit worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the audit worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath, cfg.MaxDBConns)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := func(ev *appamqp.TransactionEvent) error {
		return repo.InsertAuditEvent(ctx, storage.AuditEvent{
			TransactionID: ev.TransactionID,
			UserID:        ev.UserID,
			Action:        ev.Action,
			OccurredAt:    ev.Timestamp,
		})
	}

	logger.Info("Consuming ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeTransactionEvents(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Audit worker stopped gracefully")
}
