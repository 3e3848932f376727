package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	pkgevents "github.com/floroz/marketplace/pkg/events"
	"github.com/floroz/marketplace/services/market-service/internal/adapters/database"
)

// MarketEventsProducer relays market events from the outbox to RabbitMQ.
type MarketEventsProducer struct {
	relay     *pkgevents.OutboxRelay
	publisher *pkgevents.RabbitMQPublisher
}

// NewMarketEventsProducer declares the exchange named in cfg and prepares the
// relay. lockTimeout applies to the relay's batch transactions.
func NewMarketEventsProducer(pool *pgxpool.Pool, conn *amqp.Connection, cfg pkgevents.RelayConfig, lockTimeout time.Duration, logger *slog.Logger) (*MarketEventsProducer, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = pkgevents.MarketExchange
	}

	publisher, err := pkgevents.NewRabbitMQPublisher(conn, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	relay := pkgevents.NewOutboxRelay(
		database.NewPostgresOutboxRepository(pool),
		publisher,
		pkgdb.NewPostgresTransactionManager(pool, lockTimeout),
		cfg,
		logger,
	)

	return &MarketEventsProducer{
		relay:     relay,
		publisher: publisher,
	}, nil
}

// Run blocks until ctx is cancelled.
func (p *MarketEventsProducer) Run(ctx context.Context) error {
	return p.relay.Run(ctx)
}

func (p *MarketEventsProducer) Close() error {
	return p.publisher.Close()
}
