package bids

import (
	"context"

	"github.com/google/uuid"

	"github.com/floroz/marketplace/pkg/auth"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/pagination"
)

// Service serves the paginated bid reads. Writes go through the trade coordinator.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListUniqueItemsBidOn is the bidder's "my bids" view: one row per item.
func (s *Service) ListUniqueItemsBidOn(ctx context.Context, caller auth.Identity, page pagination.Page) ([]*Bid, error) {
	return s.list(caller, page, "list bid items", func() ([]*Bid, error) {
		return s.repo.ListUniqueItemsBidOn(ctx, caller.UserID, page.Limit(), page.Offset())
	})
}

// ListBidsOnItem returns the caller's own bids on itemID.
func (s *Service) ListBidsOnItem(ctx context.Context, caller auth.Identity, itemID uuid.UUID, page pagination.Page) ([]*Bid, error) {
	return s.list(caller, page, "list item bids", func() ([]*Bid, error) {
		return s.repo.ListBidsOnItemByUser(ctx, caller.UserID, itemID, page.Limit(), page.Offset())
	})
}

// ListReceivedBids returns bids on items the caller sells.
func (s *Service) ListReceivedBids(ctx context.Context, caller auth.Identity, page pagination.Page) ([]*Bid, error) {
	return s.list(caller, page, "list received bids", func() ([]*Bid, error) {
		return s.repo.ListBidsReceivedOnOwnedItems(ctx, caller.UserID, page.Limit(), page.Offset())
	})
}

// ListBidderBidsOnItem lets a seller review one bidder's history on an item
// they own. Items the caller does not own yield an empty page.
func (s *Service) ListBidderBidsOnItem(ctx context.Context, caller auth.Identity, itemID, bidderID uuid.UUID, page pagination.Page) ([]*Bid, error) {
	return s.list(caller, page, "list bidder bids", func() ([]*Bid, error) {
		return s.repo.ListBidsByBidderOnOwnedItem(ctx, caller.UserID, itemID, bidderID, page.Limit(), page.Offset())
	})
}

func (s *Service) list(caller auth.Identity, page pagination.Page, op string, query func() ([]*Bid, error)) ([]*Bid, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	list, err := query()
	if err != nil {
		return nil, domainerrors.Classify(op, err)
	}
	return list, nil
}
