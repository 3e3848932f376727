package items

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/floroz/marketplace/pkg/auth"
	"github.com/floroz/marketplace/pkg/database"
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/pagination"
)

// Service implements the owner-facing item operations: listing, editing and
// archiving. Sale transitions belong to the trade coordinator.
type Service struct {
	txManager database.TransactionManager
	repo      Repository
	cache     Cache
	logger    *slog.Logger
}

// NewService creates a new item service. A nil cache disables caching.
func NewService(txManager database.TransactionManager, repo Repository, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		logger:    logger,
	}
}

// CreateItem lists a new item in the available state.
func (s *Service) CreateItem(ctx context.Context, caller auth.Identity, cmd CreateItemCommand) (*Item, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, domainerrors.ErrInvalidItemName
	}
	if cmd.Price <= 0 {
		return nil, domainerrors.ErrInvalidPrice
	}

	now := time.Now().UTC()
	item := &Item{
		ID:          uuid.New(),
		SellerID:    caller.UserID,
		Name:        name,
		Description: cmd.Description,
		Category:    strings.TrimSpace(cmd.Category),
		Price:       cmd.Price,
		State:       StateAvailable,
		Published:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, domainerrors.Classify("create item", err)
	}

	return item, nil
}

// GetItem reads an item through the cache.
func (s *Service) GetItem(ctx context.Context, itemID uuid.UUID) (*Item, error) {
	cached, err := s.cache.Get(ctx, itemID)
	if err != nil {
		s.logger.Warn("Item cache read failed", "item_id", itemID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	token, err := s.cache.Reserve(ctx, itemID)
	if err != nil {
		s.logger.Warn("Item cache reserve failed", "item_id", itemID, "error", err)
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, domainerrors.Classify("get item", err)
	}

	if token == "" {
		return item, nil
	}
	stored, err := s.cache.Fill(ctx, item, token)
	switch {
	case err != nil:
		s.logger.Warn("Item cache write failed", "item_id", itemID, "error", err)
	case !stored:
		s.logger.Debug("Item changed while loading, not cached", "item_id", itemID)
	}
	return item, nil
}

// ListItems returns the public catalogue: items that still accept bids.
func (s *Service) ListItems(ctx context.Context, query ListItemsQuery, page pagination.Page) ([]*Item, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAvailable(ctx, strings.TrimSpace(query.Category), page.Limit(), page.Offset())
	if err != nil {
		return nil, domainerrors.Classify("list items", err)
	}
	return list, nil
}

// ListSellerItems returns the caller's own items in every state.
func (s *Service) ListSellerItems(ctx context.Context, caller auth.Identity, page pagination.Page) ([]*Item, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListBySeller(ctx, caller.UserID, page.Limit(), page.Offset())
	if err != nil {
		return nil, domainerrors.Classify("list seller items", err)
	}
	return list, nil
}

// UpdateItem edits an item the caller owns. Sold and archived items are frozen.
func (s *Service) UpdateItem(ctx context.Context, caller auth.Identity, cmd UpdateItemCommand) (*Item, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, domainerrors.ErrInvalidItemName
	}
	if cmd.Price != nil && *cmd.Price <= 0 {
		return nil, domainerrors.ErrInvalidPrice
	}

	item, err := s.withLockedItem(ctx, cmd.ItemID, "update item", func(tx pgx.Tx, item *Item) error {
		if !item.IsOwnedBy(caller.UserID) {
			return domainerrors.ErrNotItemOwner
		}
		if item.State.IsTerminal() {
			return domainerrors.ErrItemNotEditable
		}

		if cmd.Name != nil {
			item.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Description != nil {
			item.Description = *cmd.Description
		}
		if cmd.Category != nil {
			item.Category = strings.TrimSpace(*cmd.Category)
		}
		if cmd.Price != nil {
			item.Price = *cmd.Price
		}
		item.UpdatedAt = time.Now().UTC()

		return s.repo.UpdateDetails(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ArchiveItem withdraws an available item. The owner or an admin may archive.
func (s *Service) ArchiveItem(ctx context.Context, caller auth.Identity, itemID uuid.UUID) (*Item, error) {
	if !caller.IsAuthenticated() {
		return nil, domainerrors.ErrMissingIdentity
	}

	return s.withLockedItem(ctx, itemID, "archive item", func(tx pgx.Tx, item *Item) error {
		if !item.IsOwnedBy(caller.UserID) && !caller.IsAdmin() {
			return domainerrors.ErrNotItemOwner
		}
		if !item.State.CanTransitionTo(StateArchived) {
			return domainerrors.ErrItemNotArchivable
		}
		if err := s.repo.UpdateState(ctx, tx, item.ID, StateArchived); err != nil {
			return err
		}
		item.State = StateArchived
		item.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// withLockedItem runs fn with the item row locked and commits when fn succeeds.
func (s *Service) withLockedItem(ctx context.Context, itemID uuid.UUID, op string, fn func(tx pgx.Tx, item *Item) error) (*Item, error) {
	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, domainerrors.Classify("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	item, err := s.repo.GetItemByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return nil, domainerrors.Classify(op, err)
	}

	if err := fn(tx, item); err != nil {
		return nil, domainerrors.Classify(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domainerrors.Classify("commit transaction", err)
	}

	if err := s.cache.Invalidate(ctx, itemID); err != nil {
		s.logger.Warn("Item cache invalidation failed", "item_id", itemID, "error", err)
	}
	return item, nil
}
