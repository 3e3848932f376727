package sellerstats

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/pkg/database"
)

type Service struct {
	repo      Repository
	txManager database.TransactionManager
}

func NewService(repo Repository, txManager database.TransactionManager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// ProcessItemSold folds one sale into the seller's totals. Redelivered events
// are recognised by EventID and leave the totals untouched.
func (s *Service) ProcessItemSold(ctx context.Context, event SaleEvent) error {
	if event.EventID == uuid.Nil || event.SellerID == uuid.Nil || event.FinalPrice <= 0 {
		return ErrInvalidSale
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	processed, err := s.repo.IsEventProcessed(ctx, tx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check idempotency: %w", err)
	}
	if processed {
		return nil
	}

	if err := s.repo.RecordSale(ctx, tx, event.SellerID, event.FinalPrice, event.OccurredAt); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}

	if err := s.repo.MarkEventProcessed(ctx, tx, event.EventID); err != nil {
		return fmt.Errorf("failed to mark event as processed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSellerStats is readable by the seller and by admins.
func (s *Service) GetSellerStats(ctx context.Context, caller auth.Identity, sellerID uuid.UUID) (*SellerStats, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrMissingIdentity
	}
	if caller.UserID != sellerID && !caller.IsAdmin() {
		return nil, ErrNotStatsOwner
	}
	return s.repo.GetSellerStats(ctx, sellerID)
}
