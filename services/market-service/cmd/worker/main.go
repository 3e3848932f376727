package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	pkgevents "github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/events"
	"github.com/floroz/marketplace/services/market-service/internal/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Postgres
	pool, err := pkgdb.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Unable to connect to Postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Postgres Connected")

	// 2. RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()
	logger.Info("RabbitMQ Connected")

	// 3. Producer
	producer, err := events.NewMarketEventsProducer(pool, amqpConn, pkgevents.RelayConfig{
		BatchSize: cfg.RelayBatchSize,
		Interval:  cfg.RelayInterval,
		Exchange:  pkgevents.MarketExchange,
	}, cfg.LockTimeout, logger)
	if err != nil {
		logger.Error("Failed to create producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	logger.Info("Starting Market Events Producer...")
	if runErr := producer.Run(ctx); runErr != nil && ctx.Err() == nil {
		logger.Error("Producer failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("Worker stopped")
}
