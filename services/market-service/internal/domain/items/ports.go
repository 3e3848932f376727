package items

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the item store. It performs no business validation: callers
// check the state machine before writing.
type Repository interface {
	// CreateItem inserts a new item
	CreateItem(ctx context.Context, item *Item) error

	// GetItemByID reads an item outside any transaction
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*Item, error)

	// GetItemByIDForUpdate reads an item and holds its row lock until tx ends.
	// Every read-then-write on an item's state starts here.
	GetItemByIDForUpdate(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (*Item, error)

	// UpdateState overwrites the state column
	UpdateState(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, state ItemState) error

	// UpdateDetails overwrites name, description, category and price
	UpdateDetails(ctx context.Context, tx pgx.Tx, item *Item) error

	// ListAvailable returns available and reserved items, newest first
	ListAvailable(ctx context.Context, category string, limit, offset int) ([]*Item, error)

	// ListBySeller returns every item of a seller, newest first
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*Item, error)
}

// Cache is a read-through cache of single items. Get returns (nil, nil) on a
// miss. A fill is leased: Reserve before reading the store, then Fill with the
// token. Invalidate revokes outstanding leases, so a row read before a
// committed write is never stored after that write's invalidation.
type Cache interface {
	Get(ctx context.Context, itemID uuid.UUID) (*Item, error)
	Reserve(ctx context.Context, itemID uuid.UUID) (token string, err error)
	Fill(ctx context.Context, item *Item, token string) (stored bool, err error)
	Invalidate(ctx context.Context, itemID uuid.UUID) error
}

// NoopCache is used when no cache backend is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID) (*Item, error)      { return nil, nil }
func (NoopCache) Reserve(context.Context, uuid.UUID) (string, error) { return "", nil }
func (NoopCache) Fill(context.Context, *Item, string) (bool, error)  { return false, nil }
func (NoopCache) Invalidate(context.Context, uuid.UUID) error        { return nil }
