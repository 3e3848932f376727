package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	"github.com/floroz/marketplace/services/market-service/internal/domain/bids"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
)

// PostgresBidRepository implements bids.Repository using pgx
type PostgresBidRepository struct {
	pool *pgxpool.Pool // Keep pool for read-only operations
}

// NewPostgresBidRepository creates a new PostgreSQL bid repository
func NewPostgresBidRepository(pool *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{pool: pool}
}

// SaveBid saves a bid within the caller's transaction
func (r *PostgresBidRepository) SaveBid(ctx context.Context, tx pgx.Tx, bid *bids.Bid) error {
	query := `
		INSERT INTO bids (id, item_id, user_id, asking_price, status, published)
		VALUES ($1, $2, $3, $4, $5::bid_status, $6)
	`
	_, err := tx.Exec(ctx, query,
		bid.ID,
		bid.ItemID,
		bid.UserID,
		bid.AskingPrice,
		bid.Status,
		bid.Published,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// GetBidByID retrieves a bid with its item name
func (r *PostgresBidRepository) GetBidByID(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (*bids.Bid, error) {
	query := `
		SELECT b.id, b.item_id, b.user_id, b.asking_price, b.status::text, b.published, i.name
		FROM bids b
		JOIN items i ON i.id = b.item_id
		WHERE b.id = $1
	`
	bid, err := scanBid(tx.QueryRow(ctx, query, bidID))
	if err != nil {
		if pkgdb.IsNoRows(err) {
			return nil, domainerrors.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	return bid, nil
}

// ItemIDForBid resolves the item a bid was placed on
func (r *PostgresBidRepository) ItemIDForBid(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (uuid.UUID, error) {
	var itemID uuid.UUID
	err := tx.QueryRow(ctx, `SELECT item_id FROM bids WHERE id = $1`, bidID).Scan(&itemID)
	if err != nil {
		if pkgdb.IsNoRows(err) {
			return uuid.Nil, domainerrors.ErrBidNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve bid item: %w", err)
	}
	return itemID, nil
}

// SetStatus overwrites a bid's status if callerID owns the bid's item
func (r *PostgresBidRepository) SetStatus(ctx context.Context, tx pgx.Tx, bidID uuid.UUID, status bids.BidStatus, callerID uuid.UUID) error {
	query := `
		UPDATE bids b
		SET status = $1::bid_status
		FROM items i
		WHERE b.id = $2 AND i.id = b.item_id AND i.seller_id = $3
	`
	result, err := tx.Exec(ctx, query, status, bidID, callerID)
	if err != nil {
		return fmt.Errorf("failed to update bid status: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	// nothing updated: tell a missing bid apart from someone else's item
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bids WHERE id = $1)`, bidID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check bid: %w", err)
	}
	if !exists {
		return domainerrors.ErrBidNotFound
	}
	return domainerrors.ErrNotItemOwner
}

// HasOutstandingBid reports whether any bid on the item is pending or accepted
func (r *PostgresBidRepository) HasOutstandingBid(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bids
			WHERE item_id = $1 AND status IN ('pending', 'accepted')
		)
	`
	var outstanding bool
	if err := tx.QueryRow(ctx, query, itemID).Scan(&outstanding); err != nil {
		return false, fmt.Errorf("failed to check outstanding bids: %w", err)
	}
	return outstanding, nil
}

// ListUniqueItemsBidOn returns the bidder's latest bid per item, newest first
func (r *PostgresBidRepository) ListUniqueItemsBidOn(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	query := `
		SELECT id, item_id, user_id, asking_price, status, published, name
		FROM (
			SELECT DISTINCT ON (b.item_id)
				b.id, b.item_id, b.user_id, b.asking_price, b.status::text AS status, b.published, i.name
			FROM bids b
			JOIN items i ON i.id = b.item_id
			WHERE b.user_id = $1
			ORDER BY b.item_id, b.published DESC, b.id
		) latest
		ORDER BY published DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, bidderID, limit, offset)
}

// ListBidsOnItemByUser returns the bidder's bids on one item, newest first
func (r *PostgresBidRepository) ListBidsOnItemByUser(ctx context.Context, bidderID, itemID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	query := `
		SELECT b.id, b.item_id, b.user_id, b.asking_price, b.status::text, b.published, i.name
		FROM bids b
		JOIN items i ON i.id = b.item_id
		WHERE b.user_id = $1 AND b.item_id = $2
		ORDER BY b.published DESC, b.id
		LIMIT $3 OFFSET $4
	`
	return r.list(ctx, query, bidderID, itemID, limit, offset)
}

// ListBidsReceivedOnOwnedItems returns bids on any item the owner sells, newest first
func (r *PostgresBidRepository) ListBidsReceivedOnOwnedItems(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	query := `
		SELECT b.id, b.item_id, b.user_id, b.asking_price, b.status::text, b.published, i.name
		FROM bids b
		JOIN items i ON i.id = b.item_id
		WHERE i.seller_id = $1
		ORDER BY b.published DESC, b.id
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, ownerID, limit, offset)
}

// ListBidsByBidderOnOwnedItem returns one bidder's bids on an item the owner sells
func (r *PostgresBidRepository) ListBidsByBidderOnOwnedItem(ctx context.Context, ownerID, itemID, bidderID uuid.UUID, limit, offset int) ([]*bids.Bid, error) {
	query := `
		SELECT b.id, b.item_id, b.user_id, b.asking_price, b.status::text, b.published, i.name
		FROM bids b
		JOIN items i ON i.id = b.item_id
		WHERE i.seller_id = $1 AND b.item_id = $2 AND b.user_id = $3
		ORDER BY b.published DESC, b.id
		LIMIT $4 OFFSET $5
	`
	return r.list(ctx, query, ownerID, itemID, bidderID, limit, offset)
}

func (r *PostgresBidRepository) list(ctx context.Context, query string, args ...any) ([]*bids.Bid, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	result := make([]*bids.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		result = append(result, bid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}
	return result, nil
}

func scanBid(row pgx.Row) (*bids.Bid, error) {
	var (
		bid    bids.Bid
		status string
	)
	if err := row.Scan(
		&bid.ID,
		&bid.ItemID,
		&bid.UserID,
		&bid.AskingPrice,
		&status,
		&bid.Published,
		&bid.ItemName,
	); err != nil {
		return nil, err
	}

	bid.Status = bids.BidStatus(status)
	if !bid.Status.IsValid() {
		return nil, fmt.Errorf("unknown bid status %q", status)
	}
	return &bid, nil
}
