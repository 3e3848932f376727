package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floroz/marketplace/services/seller-stats-service/internal/domain/sellerstats"
)

type SellerStatsRepository struct {
	pool *pgxpool.Pool
}

var _ sellerstats.Repository = (*SellerStatsRepository)(nil)

func NewSellerStatsRepository(pool *pgxpool.Pool) *SellerStatsRepository {
	return &SellerStatsRepository{pool: pool}
}

// RecordSale upserts the seller row. last_sale_at only moves forward so that
// out-of-order deliveries keep the latest sale.
func (r *SellerStatsRepository) RecordSale(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, finalPrice int64, soldAt time.Time) error {
	query := `
		INSERT INTO seller_stats (seller_id, items_sold, total_revenue, last_sale_at, created_at, updated_at)
		VALUES ($1, 1, $2, $3, NOW(), NOW())
		ON CONFLICT (seller_id) DO UPDATE SET
			items_sold = seller_stats.items_sold + 1,
			total_revenue = seller_stats.total_revenue + EXCLUDED.total_revenue,
			last_sale_at = GREATEST(seller_stats.last_sale_at, EXCLUDED.last_sale_at),
			updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, query, sellerID, finalPrice, soldAt); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}
	return nil
}

func (r *SellerStatsRepository) GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*sellerstats.SellerStats, error) {
	query := `
		SELECT seller_id, items_sold, total_revenue, last_sale_at, created_at, updated_at
		FROM seller_stats
		WHERE seller_id = $1
	`
	var stats sellerstats.SellerStats
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(
		&stats.SellerID,
		&stats.ItemsSold,
		&stats.TotalRevenue,
		&stats.LastSaleAt,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sellerstats.ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get seller stats: %w", err)
	}
	return &stats, nil
}

func (r *SellerStatsRepository) MarkEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `INSERT INTO processed_events (event_id) VALUES ($1)`, eventID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *SellerStatsRepository) IsEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM processed_events WHERE event_id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check processed event: %w", err)
	}
	return exists, nil
}
