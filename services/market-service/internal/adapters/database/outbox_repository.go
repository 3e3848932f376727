package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgevents "github.com/floroz/marketplace/pkg/events"
)

// PostgresOutboxRepository implements trade.OutboxRepository and
// events.OutboxRepository using pgx
type PostgresOutboxRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOutboxRepository creates a new PostgreSQL outbox repository
func NewPostgresOutboxRepository(pool *pgxpool.Pool) *PostgresOutboxRepository {
	return &PostgresOutboxRepository{pool: pool}
}

// SaveEvent saves an outbox event within the transaction of the change it describes
func (r *PostgresOutboxRepository) SaveEvent(ctx context.Context, tx pgx.Tx, event *pkgevents.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4::outbox_status, $5)
	`
	_, err := tx.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// GetPendingEvents retrieves pending events in creation order.
// SKIP LOCKED lets several relays share the table without handing out the same row twice.
func (r *PostgresOutboxRepository) GetPendingEvents(ctx context.Context, tx pgx.Tx, limit int) ([]*pkgevents.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status::text, created_at, processed_at
		FROM outbox_events
		WHERE status = $1::outbox_status
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	rows, err := tx.Query(ctx, query, pkgevents.OutboxStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	var pending []*pkgevents.OutboxEvent
	for rows.Next() {
		var (
			event  pkgevents.OutboxEvent
			status string
		)
		if err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Payload,
			&status,
			&event.CreatedAt,
			&event.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Status = pkgevents.OutboxStatus(status)
		pending = append(pending, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return pending, nil
}

// UpdateEventStatus updates the status of an event and stamps processed_at
// once it leaves pending
func (r *PostgresOutboxRepository) UpdateEventStatus(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, status pkgevents.OutboxStatus) error {
	query := `
		UPDATE outbox_events
		SET status = $1::outbox_status, processed_at = $2
		WHERE id = $3
	`

	var processedAt *time.Time
	if status == pkgevents.OutboxStatusPublished || status == pkgevents.OutboxStatusFailed {
		now := time.Now().UTC()
		processedAt = &now
	}

	result, err := tx.Exec(ctx, query, status, processedAt, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("outbox event %s not found", eventID)
	}
	return nil
}
