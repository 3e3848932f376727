package purchases

import (
	"context"

	"github.com/google/uuid"

	"github.com/floroz/marketplace/pkg/auth"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/pagination"
)

// Service answers buyers' questions about their purchases.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPurchase returns the sale of itemID. Only the buyer or an admin may see it.
func (s *Service) GetPurchase(ctx context.Context, caller auth.Identity, itemID uuid.UUID) (*Purchase, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}

	purchase, err := s.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, domainerrors.Classify("get purchase", err)
	}

	if purchase.BuyerID != caller.UserID && !caller.IsAdmin() {
		return nil, domainerrors.ErrNotPurchaser
	}
	return purchase, nil
}

// ListPurchases returns the caller's purchases.
func (s *Service) ListPurchases(ctx context.Context, caller auth.Identity, page pagination.Page) ([]*Purchase, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByBuyer(ctx, caller.UserID, page.Limit(), page.Offset())
	if err != nil {
		return nil, domainerrors.Classify("list purchases", err)
	}
	return list, nil
}
