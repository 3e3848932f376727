package bids

import (
	"time"

	"github.com/google/uuid"
)

// BidStatus is the seller's answer to a bid. Pending means unanswered.
type BidStatus string

const (
	StatusPending  BidStatus = "pending"
	StatusAccepted BidStatus = "accepted"
	StatusDeclined BidStatus = "declined"
)

// IsAnswer is true for the two statuses a seller may set.
func (s BidStatus) IsAnswer() bool {
	return s == StatusAccepted || s == StatusDeclined
}

func (s BidStatus) IsValid() bool {
	return s == StatusPending || s.IsAnswer()
}

// Bid is an offer on an item. Only Status ever changes after placement.
// ItemName is filled on list reads.
type Bid struct {
	ID          uuid.UUID
	ItemID      uuid.UUID
	UserID      uuid.UUID
	AskingPrice int64
	Status      BidStatus
	Published   time.Time
	ItemName    string
}

func (b *Bid) IsAnswered() bool {
	return b.Status != StatusPending
}
