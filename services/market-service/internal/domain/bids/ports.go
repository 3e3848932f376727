package bids

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the bid ledger.
type Repository interface {
	// SaveBid inserts a pending bid. Legality is checked by the caller.
	SaveBid(ctx context.Context, tx pgx.Tx, bid *Bid) error

	GetBidByID(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (*Bid, error)

	// ItemIDForBid resolves which item a bid targets so the item can be locked
	// before the bid is inspected.
	ItemIDForBid(ctx context.Context, tx pgx.Tx, bidID uuid.UUID) (uuid.UUID, error)

	// SetStatus overwrites the status. It fails with a Forbidden error unless
	// callerID owns the bid's item.
	SetStatus(ctx context.Context, tx pgx.Tx, bidID uuid.UUID, status BidStatus, callerID uuid.UUID) error

	// HasOutstandingBid is true when any bid on the item is pending or accepted.
	HasOutstandingBid(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (bool, error)

	// ListUniqueItemsBidOn returns, per item the bidder bid on, their latest
	// bid, ordered by that bid's time descending.
	ListUniqueItemsBidOn(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]*Bid, error)

	// ListBidsOnItemByUser returns the bidder's bids on one item, newest first.
	ListBidsOnItemByUser(ctx context.Context, bidderID, itemID uuid.UUID, limit, offset int) ([]*Bid, error)

	// ListBidsReceivedOnOwnedItems returns bids on any item owned by ownerID, newest first.
	ListBidsReceivedOnOwnedItems(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Bid, error)

	// ListBidsByBidderOnOwnedItem returns one bidder's bids on an item owned by ownerID.
	ListBidsByBidderOnOwnedItem(ctx context.Context, ownerID, itemID, bidderID uuid.UUID, limit, offset int) ([]*Bid, error)
}
