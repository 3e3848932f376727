package events

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys of the events emitted by the market service.
const (
	EventTypeBidPlaced   = "bid.placed"
	EventTypeBidAnswered = "bid.answered"
	EventTypeItemSold    = "item.sold"
)

// BidPlaced is emitted when a bid is recorded against an item.
type BidPlaced struct {
	EventID     uuid.UUID
	BidID       uuid.UUID
	ItemID      uuid.UUID
	BidderID    uuid.UUID
	AskingPrice int64
	ItemState   string
	OccurredAt  time.Time
}

func (e *BidPlaced) Marshal() ([]byte, error) {
	return encodeFields(map[string]any{
		"event_id":     e.EventID.String(),
		"bid_id":       e.BidID.String(),
		"item_id":      e.ItemID.String(),
		"bidder_id":    e.BidderID.String(),
		"asking_price": e.AskingPrice,
		"item_state":   e.ItemState,
		"occurred_at":  formatTime(e.OccurredAt),
	})
}

func UnmarshalBidPlaced(payload []byte) (*BidPlaced, error) {
	r, err := decodeFields(payload)
	if err != nil {
		return nil, err
	}
	e := &BidPlaced{
		EventID:     r.getUUID("event_id"),
		BidID:       r.getUUID("bid_id"),
		ItemID:      r.getUUID("item_id"),
		BidderID:    r.getUUID("bidder_id"),
		AskingPrice: r.getInt64("asking_price"),
		ItemState:   r.getString("item_state"),
		OccurredAt:  r.getTime("occurred_at"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

// BidAnswered is emitted when the seller accepts or declines a bid.
type BidAnswered struct {
	EventID    uuid.UUID
	BidID      uuid.UUID
	ItemID     uuid.UUID
	SellerID   uuid.UUID
	BidderID   uuid.UUID
	Status     string
	ItemState  string
	OccurredAt time.Time
}

func (e *BidAnswered) Marshal() ([]byte, error) {
	return encodeFields(map[string]any{
		"event_id":    e.EventID.String(),
		"bid_id":      e.BidID.String(),
		"item_id":     e.ItemID.String(),
		"seller_id":   e.SellerID.String(),
		"bidder_id":   e.BidderID.String(),
		"status":      e.Status,
		"item_state":  e.ItemState,
		"occurred_at": formatTime(e.OccurredAt),
	})
}

func UnmarshalBidAnswered(payload []byte) (*BidAnswered, error) {
	r, err := decodeFields(payload)
	if err != nil {
		return nil, err
	}
	e := &BidAnswered{
		EventID:    r.getUUID("event_id"),
		BidID:      r.getUUID("bid_id"),
		ItemID:     r.getUUID("item_id"),
		SellerID:   r.getUUID("seller_id"),
		BidderID:   r.getUUID("bidder_id"),
		Status:     r.getString("status"),
		ItemState:  r.getString("item_state"),
		OccurredAt: r.getTime("occurred_at"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

// ItemSold is emitted once per item, when its purchase is recorded. BidID is
// uuid.Nil for direct purchases.
type ItemSold struct {
	EventID    uuid.UUID
	PurchaseID uuid.UUID
	ItemID     uuid.UUID
	SellerID   uuid.UUID
	BuyerID    uuid.UUID
	BidID      uuid.UUID
	Category   string
	FinalPrice int64
	OccurredAt time.Time
}

func (e *ItemSold) Marshal() ([]byte, error) {
	fields := map[string]any{
		"event_id":    e.EventID.String(),
		"purchase_id": e.PurchaseID.String(),
		"item_id":     e.ItemID.String(),
		"seller_id":   e.SellerID.String(),
		"buyer_id":    e.BuyerID.String(),
		"category":    e.Category,
		"final_price": e.FinalPrice,
		"occurred_at": formatTime(e.OccurredAt),
	}
	if e.BidID != uuid.Nil {
		fields["bid_id"] = e.BidID.String()
	}
	return encodeFields(fields)
}

func UnmarshalItemSold(payload []byte) (*ItemSold, error) {
	r, err := decodeFields(payload)
	if err != nil {
		return nil, err
	}
	e := &ItemSold{
		EventID:    r.getUUID("event_id"),
		PurchaseID: r.getUUID("purchase_id"),
		ItemID:     r.getUUID("item_id"),
		SellerID:   r.getUUID("seller_id"),
		BuyerID:    r.getUUID("buyer_id"),
		BidID:      r.getOptionalUUID("bid_id"),
		Category:   r.getOptionalString("category"),
		FinalPrice: r.getInt64("final_price"),
		OccurredAt: r.getTime("occurred_at"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}
