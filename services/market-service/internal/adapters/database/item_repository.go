package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgdb "github.com/floroz/marketplace/pkg/database"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/items"
)

const itemColumns = `id, seller_id, name, description, category, price, state::text, published, updated_at`

// PostgresItemRepository implements items.Repository using pgx
type PostgresItemRepository struct {
	pool *pgxpool.Pool // Keep pool for non-transactional reads
}

// NewPostgresItemRepository creates a new PostgreSQL item repository
func NewPostgresItemRepository(pool *pgxpool.Pool) *PostgresItemRepository {
	return &PostgresItemRepository{pool: pool}
}

// CreateItem inserts a new listing
func (r *PostgresItemRepository) CreateItem(ctx context.Context, item *items.Item) error {
	query := `
		INSERT INTO items (id, seller_id, name, description, category, price, state, published, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::item_state, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.SellerID,
		item.Name,
		item.Description,
		item.Category,
		item.Price,
		item.State,
		item.Published,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItemByID retrieves an item by its ID (non-transactional read)
func (r *PostgresItemRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*items.Item, error) {
	return r.getItemByID(ctx, r.pool, itemID, false)
}

// GetItemByIDForUpdate retrieves an item by its ID and locks the row until tx ends
func (r *PostgresItemRepository) GetItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*items.Item, error) {
	return r.getItemByID(ctx, tx, itemID, true)
}

func (r *PostgresItemRepository) getItemByID(ctx context.Context, db pkgdb.DBTX, itemID uuid.UUID, forUpdate bool) (*items.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	item, err := scanItem(db.QueryRow(ctx, query, itemID))
	if err != nil {
		if pkgdb.IsNoRows(err) {
			return nil, domainerrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// UpdateState overwrites the sale state of an item within a transaction
func (r *PostgresItemRepository) UpdateState(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, state items.ItemState) error {
	query := `
		UPDATE items
		SET state = $1::item_state, updated_at = NOW()
		WHERE id = $2
	`
	result, err := tx.Exec(ctx, query, state, itemID)
	if err != nil {
		return fmt.Errorf("failed to update item state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

// UpdateDetails overwrites the descriptive fields and the price
func (r *PostgresItemRepository) UpdateDetails(ctx context.Context, tx pgx.Tx, item *items.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, category = $3, price = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := tx.Exec(ctx, query,
		item.Name,
		item.Description,
		item.Category,
		item.Price,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

// ListAvailable returns the public catalogue, optionally narrowed to one category
func (r *PostgresItemRepository) ListAvailable(ctx context.Context, category string, limit, offset int) ([]*items.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE state IN ('available', 'reserved')
		  AND ($1::text = '' OR category = $1::text)
		ORDER BY published DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, category, limit, offset)
}

// ListBySeller returns every item of a seller regardless of state
func (r *PostgresItemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*items.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE seller_id = $1
		ORDER BY published DESC, id
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, sellerID, limit, offset)
}

func (r *PostgresItemRepository) list(ctx context.Context, query string, args ...any) ([]*items.Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	result := make([]*items.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return result, nil
}

func scanItem(row pgx.Row) (*items.Item, error) {
	var (
		item  items.Item
		state string
	)
	if err := row.Scan(
		&item.ID,
		&item.SellerID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.Price,
		&state,
		&item.Published,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := items.ParseState(state)
	if err != nil {
		return nil, err
	}
	item.State = parsed
	return &item, nil
}
