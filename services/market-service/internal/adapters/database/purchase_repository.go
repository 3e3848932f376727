package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/purchases"
)

// PostgresPurchaseRepository implements purchases.Repository using pgx
type PostgresPurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPurchaseRepository(pool *pgxpool.Pool) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{pool: pool}
}

// Record appends a purchase. The unique item_id constraint turns a second sale
// of the same item into ErrItemAlreadySold.
func (r *PostgresPurchaseRepository) Record(ctx context.Context, tx pgx.Tx, purchase *purchases.Purchase) error {
	query := `
		INSERT INTO purchases (id, item_id, buyer_id, final_price, purchased_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query,
		purchase.ID,
		purchase.ItemID,
		purchase.BuyerID,
		purchase.FinalPrice,
		purchase.PurchasedAt,
	)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return domainerrors.ErrItemAlreadySold
		}
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

func (r *PostgresPurchaseRepository) GetByItemID(ctx context.Context, itemID uuid.UUID) (*purchases.Purchase, error) {
	query := `
		SELECT id, item_id, buyer_id, final_price, purchased_at
		FROM purchases
		WHERE item_id = $1
	`
	var p purchases.Purchase
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&p.ID,
		&p.ItemID,
		&p.BuyerID,
		&p.FinalPrice,
		&p.PurchasedAt,
	)
	if err != nil {
		if pkgdb.IsNoRows(err) {
			return nil, domainerrors.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	return &p, nil
}

func (r *PostgresPurchaseRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*purchases.Purchase, error) {
	query := `
		SELECT id, item_id, buyer_id, final_price, purchased_at
		FROM purchases
		WHERE buyer_id = $1
		ORDER BY purchased_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	result := make([]*purchases.Purchase, 0)
	for rows.Next() {
		var p purchases.Purchase
		if err := rows.Scan(&p.ID, &p.ItemID, &p.BuyerID, &p.FinalPrice, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		result = append(result, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return result, nil
}
