package purchases

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the append-only purchase recorder.
type Repository interface {
	// Record inserts the purchase without validation. A second purchase of the
	// same item fails on the unique item_id constraint.
	Record(ctx context.Context, tx pgx.Tx, purchase *Purchase) error

	GetByItemID(ctx context.Context, itemID uuid.UUID) (*Purchase, error)

	// ListByBuyer returns the buyer's purchases, newest first
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*Purchase, error)
}
