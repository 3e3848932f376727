package sellerstats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// RecordSale adds one sale to the seller's totals, creating the row on the first sale.
	RecordSale(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, finalPrice int64, soldAt time.Time) error
	// GetSellerStats returns ErrStatsNotFound for sellers without sales.
	GetSellerStats(ctx context.Context, sellerID uuid.UUID) (*SellerStats, error)

	IsEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (bool, error)
	MarkEventProcessed(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) error
}
