package purchases

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records a completed sale. Rows are never updated or deleted.
type Purchase struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	BuyerID     uuid.UUID
	FinalPrice  int64
	PurchasedAt time.Time
}

// NewPurchase builds the row for a sale settling now.
func NewPurchase(itemID, buyerID uuid.UUID, finalPrice int64) *Purchase {
	return &Purchase{
		ID:          uuid.New(),
		ItemID:      itemID,
		BuyerID:     buyerID,
		FinalPrice:  finalPrice,
		PurchasedAt: time.Now().UTC(),
	}
}
