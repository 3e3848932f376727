package items

import (
	"time"

	"github.com/google/uuid"
)

// Item is a listing and its sale state.
type Item struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Name        string
	Description string
	Category    string
	Price       int64 // smallest currency unit
	State       ItemState
	Published   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy checks if the item belongs to the given user
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.SellerID == userID
}

// CreateItemCommand lists a new item.
type CreateItemCommand struct {
	Name        string
	Description string
	Category    string
	Price       int64
}

// UpdateItemCommand replaces the descriptive fields and the price. Nil fields
// are left untouched.
type UpdateItemCommand struct {
	ItemID      uuid.UUID
	Name        *string
	Description *string
	Category    *string
	Price       *int64
}

// ListItemsQuery filters the public catalogue. An empty Category matches all.
type ListItemsQuery struct {
	Category string
}
