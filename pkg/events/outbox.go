package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/marketplace/pkg/database"
)

// OutboxStatus defines the status of an event in the outbox
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// OutboxEvent is a domain event written in the same transaction as the state
// change it describes and relayed to the broker afterwards.
type OutboxEvent struct {
	ID          uuid.UUID    `db:"id"`
	EventType   string       `db:"event_type"`
	Payload     []byte       `db:"payload"`
	Status      OutboxStatus `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	ProcessedAt *time.Time   `db:"processed_at"`
}

// NewOutboxEvent returns a pending outbox row. id must be the EventID carried
// inside payload so consumers can deduplicate redeliveries.
func NewOutboxEvent(id uuid.UUID, eventType string, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:        id,
		EventType: eventType,
		Payload:   payload,
		Status:    OutboxStatusPending,
		CreatedAt: createdAt,
	}
}

// OutboxRepository is the relay's view of the outbox table.
type OutboxRepository interface {
	GetPendingEvents(ctx context.Context, tx pgx.Tx, limit int) ([]*OutboxEvent, error)
	UpdateEventStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status OutboxStatus) error
}

// EventPublisher defines the interface for publishing events to a broker
type EventPublisher interface {
	Publish(ctx context.Context, exchange string, event *OutboxEvent) error
}

// RelayConfig tunes the polling loop.
type RelayConfig struct {
	BatchSize int
	Interval  time.Duration
	Exchange  string
}

// DefaultRelayConfig mirrors the values the worker uses when nothing is configured.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		BatchSize: 10,
		Interval:  500 * time.Millisecond,
		Exchange:  MarketExchange,
	}
}

// OutboxRelay polls the outbox for pending events and publishes them in
// creation order. Several relays may run against the same table.
type OutboxRelay struct {
	outboxRepo OutboxRepository
	publisher  EventPublisher
	txManager  database.TransactionManager
	cfg        RelayConfig
	logger     *slog.Logger
}

// NewOutboxRelay creates a new outbox relay
func NewOutboxRelay(
	outboxRepo OutboxRepository,
	publisher EventPublisher,
	txManager database.TransactionManager,
	cfg RelayConfig,
	logger *slog.Logger,
) *OutboxRelay {
	defaults := DefaultRelayConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.Exchange == "" {
		cfg.Exchange = defaults.Exchange
	}

	return &OutboxRelay{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		txManager:  txManager,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run polls until ctx is cancelled. Batch failures are logged and retried on
// the next tick.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.processBatch(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("Error processing outbox batch", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// processBatch publishes up to BatchSize pending events and returns how many
// were marked published.
func (r *OutboxRelay) processBatch(ctx context.Context) (int, error) {
	tx, err := r.txManager.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Rows are taken with FOR UPDATE SKIP LOCKED so concurrent relays never
	// publish the same event twice.
	pending, err := r.outboxRepo.GetPendingEvents(ctx, tx, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending events: %w", err)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	published := 0
	for _, event := range pending {
		if err := r.publisher.Publish(ctx, r.cfg.Exchange, event); err != nil {
			// Stop at the first failure so ordering is preserved; everything
			// published so far is still committed below.
			r.logger.Warn("Failed to publish outbox event", "event_id", event.ID, "event_type", event.EventType, "error", err)
			break
		}

		if err := r.outboxRepo.UpdateEventStatus(ctx, tx, event.ID, OutboxStatusPublished); err != nil {
			return 0, fmt.Errorf("failed to update event status %s: %w", event.ID, err)
		}
		published++
	}

	if published == 0 {
		return 0, fmt.Errorf("failed to publish event %s", pending[0].ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit outbox batch: %w", err)
	}

	r.logger.Info("Relayed outbox events", "count", published)
	return published, nil
}
