package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/adapters/database"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/adapters/events"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/config"
	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
	"github.com/floroz/marketplace/services/seller-stats-service/migrations"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateWorker()
	}
	if err != nil {
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

	if cfg.RunMigrations {
		if err := pkgdb.Migrate(ctx, pool, migrations.FS); err != nil {
			logger.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// 2. Dependencies
	txManager := pkgdb.NewPostgresTransactionManager(pool, cfg.LockTimeout)
	statsService := sellerstats.NewService(database.NewSellerStatsRepository(pool), txManager)

	// 3. RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	// 4. Consume
	consumer := events.NewSaleConsumer(amqpConn, statsService, logger)
	logger.Info("Starting sale consumer...")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Consumer failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Seller stats consumer stopped")
}
