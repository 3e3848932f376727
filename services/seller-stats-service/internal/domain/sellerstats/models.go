package sellerstats

import (
	"time"

	"github.com/google/uuid"
)

// SellerStats aggregates the completed sales of one seller.
type SellerStats struct {
	SellerID     uuid.UUID
	ItemsSold    int64
	TotalRevenue int64
	LastSaleAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AverageSalePrice is the mean final price, truncated to the currency unit.
func (s *SellerStats) AverageSalePrice() int64 {
	if s.ItemsSold == 0 {
		return 0
	}
	return s.TotalRevenue / s.ItemsSold
}

// SaleEvent is the part of an item.sold event the aggregation needs.
type SaleEvent struct {
	EventID    uuid.UUID
	SellerID   uuid.UUID
	FinalPrice int64
	OccurredAt time.Time
}
